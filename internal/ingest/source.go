package ingest

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/live"
	"github.com/lox/sunshine/internal/metrics"
	"github.com/lox/sunshine/internal/models"
	"github.com/lox/sunshine/internal/notify"
	"github.com/lox/sunshine/internal/prefs"
	"github.com/lox/sunshine/internal/store"
)

// SyncJobTag names the recurring sync job.
const SyncJobTag = "sunshine-sync"

// NotificationInterval is the minimum gap between new-weather notifications.
const NotificationInterval = time.Duration(dates.DayInMillis) * time.Millisecond

const (
	DefaultSyncInterval = 3 * time.Hour
	DefaultFetchTimeout = time.Minute
)

// Fetcher retrieves and parses one forecast document.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]models.WeatherEntry, *FetchResult, error)
}

// Store is the slice of the local store the data source needs.
type Store interface {
	CountFrom(date time.Time) (int, error)
	StartIngestRun(source, endpoint string, locationID *string) (*store.IngestRun, error)
	CompleteIngestRun(run *store.IngestRun) error
}

type SourceConfig struct {
	SyncInterval time.Duration
	FetchTimeout time.Duration
}

// DataSource fetches forecasts from the network and publishes each non-empty
// result on Forecasts.
type DataSource struct {
	fetcher  Fetcher
	store    Store
	prefs    *prefs.Preferences
	notifier notify.Notifier
	exec     *executor.AppExecutors
	jobs     *Jobs
	cfg      SourceConfig

	forecasts *live.Value[[]models.WeatherEntry]
	inFlight  atomic.Bool
	initOnce  sync.Once

	now func() time.Time
}

func NewDataSource(fetcher Fetcher, st Store, p *prefs.Preferences, notifier notify.Notifier, exec *executor.AppExecutors, cfg SourceConfig) *DataSource {
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &DataSource{
		fetcher:   fetcher,
		store:     st,
		prefs:     p,
		notifier:  notifier,
		exec:      exec,
		jobs:      NewJobs(),
		cfg:       cfg,
		forecasts: live.NewValue[[]models.WeatherEntry](),
		now:       time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (d *DataSource) SetClock(now func() time.Time) {
	d.now = now
}

// Forecasts is the stream of freshly downloaded forecasts.
func (d *DataSource) Forecasts() *live.Value[[]models.WeatherEntry] {
	return d.forecasts
}

// Initialize schedules the recurring sync and, when the store holds nothing
// from today on, requests an immediate one. Only the first call does anything.
func (d *DataSource) Initialize() {
	d.initOnce.Do(func() {
		if err := d.ScheduleRecurringSync(); err != nil {
			log.Printf("ingest: schedule recurring sync: %v", err)
		}

		d.exec.DiskIO.Execute(func() {
			n, err := d.store.CountFrom(dates.Today(d.now()))
			if err != nil {
				log.Printf("ingest: count current forecasts: %v", err)
				return
			}
			if n == 0 {
				log.Println("ingest: no current forecasts stored, starting immediate sync")
				d.StartImmediateSync()
			}
		})
	})
}

// ScheduleRecurringSync registers the periodic sync job. Re-registering is a
// no-op.
func (d *DataSource) ScheduleRecurringSync() error {
	_, err := d.jobs.Schedule(SyncJobTag, d.cfg.SyncInterval, d.FetchWeather)
	return err
}

// StartImmediateSync requests one out-of-band sync.
func (d *DataSource) StartImmediateSync() {
	d.FetchWeather()
}

// FetchWeather queues one sync cycle on the network pool. A request made while
// a cycle is queued or running is dropped. Failures are logged, never returned.
func (d *DataSource) FetchWeather() {
	if !d.inFlight.CompareAndSwap(false, true) {
		log.Println("ingest: sync already in flight, skipping")
		metrics.SyncCyclesTotal.WithLabelValues(Outcome(ErrSyncInFlight)).Inc()
		return
	}

	d.exec.NetworkIO.Execute(func() {
		defer d.inFlight.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.FetchTimeout)
		defer cancel()

		if _, err := d.sync(ctx); err != nil && !errors.Is(err, ErrEmptyResult) {
			log.Printf("ingest: sync failed: %v", err)
		}
	})
}

// SyncWeather runs one sync cycle on the calling goroutine and reports how many
// entries were published.
func (d *DataSource) SyncWeather(ctx context.Context) (int, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		metrics.SyncCyclesTotal.WithLabelValues(Outcome(ErrSyncInFlight)).Inc()
		return 0, ErrSyncInFlight
	}
	defer d.inFlight.Store(false)
	return d.sync(ctx)
}

// InFlight reports whether a sync cycle is queued or running.
func (d *DataSource) InFlight() bool {
	return d.inFlight.Load()
}

// Close stops the recurring job.
func (d *DataSource) Close() {
	d.jobs.Stop()
}

func (d *DataSource) query() Query {
	if lat, lon, ok := d.prefs.Coordinates(); ok {
		return Query{Lat: lat, Lon: lon, HasCoords: true}
	}
	return Query{Place: d.prefs.Location()}
}

func (d *DataSource) sync(ctx context.Context) (int, error) {
	q := d.query()
	locationID := q.LocationID()

	run, err := d.store.StartIngestRun(Source, Endpoint, &locationID)
	if err != nil {
		log.Printf("ingest: start ingest run: %v", err)
	}

	entries, result, err := d.fetcher.Fetch(ctx, q)
	if err == nil && len(entries) == 0 {
		err = ErrEmptyResult
	}

	if run != nil {
		run.Success = err == nil
		if result != nil {
			run.HTTPStatus = sql.NullInt64{Int64: int64(result.HTTPStatus), Valid: result.HTTPStatus > 0}
			run.ResponseSizeBytes = sql.NullInt64{Int64: int64(result.ResponseSize), Valid: result.ResponseSize > 0}
			run.RecordsParsed = sql.NullInt64{Int64: int64(result.RecordCount), Valid: true}
		}
		if err != nil {
			run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		}
		if cerr := d.store.CompleteIngestRun(run); cerr != nil {
			log.Printf("ingest: complete ingest run: %v", cerr)
		}
	}

	metrics.SyncCyclesTotal.WithLabelValues(Outcome(err)).Inc()

	if errors.Is(err, ErrEmptyResult) {
		log.Printf("ingest: %s returned no forecast days, keeping existing data", locationID)
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	log.Printf("ingest: parsed %d forecast days for %s, first %.0f/%.0f", len(entries), locationID, entries[0].Min, entries[0].Max)
	d.forecasts.Post(entries)

	d.maybeNotify(ctx, entries)
	return len(entries), nil
}

func (d *DataSource) maybeNotify(ctx context.Context, entries []models.WeatherEntry) {
	if !d.prefs.NotificationsEnabled() {
		return
	}
	now := d.now()
	if d.prefs.ElapsedSinceLastNotification(now) < NotificationInterval {
		return
	}

	n := notify.ForWeather(todayEntry(entries, now), d.prefs.IsMetric())
	if err := d.notifier.Notify(ctx, n); err != nil {
		log.Printf("ingest: notify: %v", err)
		metrics.NotificationsSent.WithLabelValues("error").Inc()
		return
	}
	metrics.NotificationsSent.WithLabelValues("ok").Inc()

	if err := d.prefs.SaveLastNotificationTime(now); err != nil {
		log.Printf("ingest: save last notification time: %v", err)
	}
}

// todayEntry picks the entry for the canonical today, falling back to the
// first entry.
func todayEntry(entries []models.WeatherEntry, now time.Time) models.WeatherEntry {
	today := dates.Today(now)
	for _, e := range entries {
		if e.Date.Equal(today) {
			return e
		}
	}
	return entries[0]
}
