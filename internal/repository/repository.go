// Package repository is the single entry point for forecast data. It persists
// every forecast the network source publishes and hands out live store views.
package repository

import (
	"log"
	"sync"
	"time"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/live"
	"github.com/lox/sunshine/internal/metrics"
	"github.com/lox/sunshine/internal/models"
	"github.com/lox/sunshine/internal/store"
)

// Store is the part of the local store the repository writes and reads.
type Store interface {
	ReplaceFrom(date time.Time, entries ...models.WeatherEntry) (int64, error)
	WeatherFrom(date time.Time) *store.View[[]models.ListWeatherEntry]
	WeatherByDate(date time.Time) *store.View[*models.WeatherEntry]
}

// Source publishes downloaded forecasts and starts syncing on demand.
type Source interface {
	Forecasts() *live.Value[[]models.WeatherEntry]
	Initialize()
}

type Repository struct {
	store  Store
	source Source
	exec   *executor.AppExecutors
	now    func() time.Time

	mu       sync.Mutex
	sub      *live.Subscription
	readOnly bool
}

func New(st Store, source Source, exec *executor.AppExecutors) *Repository {
	return &Repository{
		store:  st,
		source: source,
		exec:   exec,
		now:    time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

// DisableSync stops the views from initializing the source, so reads never
// schedule or start a sync.
func (r *Repository) DisableSync() {
	r.mu.Lock()
	r.readOnly = true
	r.mu.Unlock()
}

func (r *Repository) initialize() {
	r.mu.Lock()
	readOnly := r.readOnly
	r.mu.Unlock()
	if !readOnly {
		r.source.Initialize()
	}
}

// Start subscribes to the source. Every published forecast replaces the stored
// one: rows before today are purged, then the new entries are upserted, both on
// the disk queue. Entries dated before today are dropped. Later calls return the existing subscription.
func (r *Repository) Start() *live.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != nil {
		return r.sub
	}

	inner := r.source.Forecasts().Observe(r.exec.Main, func(entries []models.WeatherEntry) {
		r.exec.DiskIO.Execute(func() { r.persist(entries) })
	})
	r.sub = live.NewSubscription(func() {
		inner.Cancel()
		r.mu.Lock()
		r.sub = nil
		r.mu.Unlock()
	})
	return r.sub
}

func (r *Repository) persist(entries []models.WeatherEntry) {
	today := dates.Today(r.now())

	current := make([]models.WeatherEntry, 0, len(entries))
	for _, e := range entries {
		if !dates.Normalize(e.Date).Before(today) {
			current = append(current, e)
		}
	}
	if dropped := len(entries) - len(current); dropped > 0 {
		log.Printf("repository: dropped %d entries dated before %s", dropped, dates.Format(today))
	}

	purged, err := r.store.ReplaceFrom(today, current...)
	if err != nil {
		log.Printf("repository: replace from %s: %v", dates.Format(today), err)
		return
	}
	if purged > 0 {
		metrics.EntriesPurged.Add(float64(purged))
	}
	metrics.EntriesStored.Add(float64(len(current)))
	log.Printf("repository: stored %d entries, purged %d before %s", len(current), purged, dates.Format(today))
}

// CurrentWeatherForecasts is the list view of every entry from today on.
func (r *Repository) CurrentWeatherForecasts() *store.View[[]models.ListWeatherEntry] {
	r.initialize()
	return r.store.WeatherFrom(dates.Today(r.now()))
}

// WeatherByDate is the detail view for one day. It resolves to nil while the
// day is not stored.
func (r *Repository) WeatherByDate(date time.Time) *store.View[*models.WeatherEntry] {
	r.initialize()
	return r.store.WeatherByDate(date)
}
