package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/models"
)

// Store is the local forecast database. Writes are expected to come from a
// single disk worker; views reload on exec after every write.
type Store struct {
	db   *sql.DB
	exec executor.Executor

	mu          sync.Mutex
	watchers    map[uint64]func()
	nextWatcher uint64
}

// Open opens a SQLite database at path. The pool is pinned to one connection
// so that ":memory:" databases keep their schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("store: %s: %v", pragma, err)
		}
	}
	return db, nil
}

// New wraps db. View refreshes are scheduled on exec.
func New(db *sql.DB, exec executor.Executor) *Store {
	if exec == nil {
		exec = executor.Inline{}
	}
	return &Store{db: db, exec: exec, watchers: make(map[uint64]func())}
}

func (s *Store) BulkInsert(entries ...models.WeatherEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	if err := upsertWeather(tx, entries); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	s.invalidate()
	return nil
}

// ReplaceFrom deletes rows dated before date and upserts entries in one
// transaction, so readers never see the purge without the insert. It reports
// how many rows were purged.
func (s *Store) ReplaceFrom(date time.Time, entries ...models.WeatherEntry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM weather WHERE date < ?`, dates.ToMillis(dates.Normalize(date)))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("delete old weather: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if len(entries) > 0 {
		if err := upsertWeather(tx, entries); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	if purged > 0 || len(entries) > 0 {
		s.invalidate()
	}
	return purged, nil
}

func upsertWeather(tx *sql.Tx, entries []models.WeatherEntry) error {
	stmt, err := tx.Prepare(`
		INSERT INTO weather (weather_icon_id, date, min, max, humidity, pressure, wind, degrees)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			weather_icon_id = excluded.weather_icon_id,
			min = excluded.min,
			max = excluded.max,
			humidity = excluded.humidity,
			pressure = excluded.pressure,
			wind = excluded.wind,
			degrees = excluded.degrees
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		day := dates.Normalize(e.Date)
		if _, err := stmt.Exec(e.WeatherIconID, dates.ToMillis(day), e.Min, e.Max, e.Humidity, e.Pressure, e.Wind, e.Degrees); err != nil {
			return fmt.Errorf("insert %s: %w", dates.Format(day), err)
		}
	}
	return nil
}

// DeleteOlderThan removes rows dated strictly before date and reports how many
// were removed.
func (s *Store) DeleteOlderThan(date time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM weather WHERE date < ?`, dates.ToMillis(dates.Normalize(date)))
	if err != nil {
		return 0, fmt.Errorf("delete old weather: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate()
	}
	return n, nil
}

// GetWeatherFrom returns list entries dated on or after date, oldest first.
func (s *Store) GetWeatherFrom(date time.Time) ([]models.ListWeatherEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, weather_icon_id, date, min, max
		FROM weather
		WHERE date >= ?
		ORDER BY date ASC
	`, dates.ToMillis(dates.Normalize(date)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ListWeatherEntry{}
	for rows.Next() {
		var e models.ListWeatherEntry
		var ms int64
		if err := rows.Scan(&e.ID, &e.WeatherIconID, &ms, &e.Min, &e.Max); err != nil {
			return nil, err
		}
		e.Date = dates.FromMillis(ms)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetAllWeatherFrom returns full entries dated on or after date, oldest first.
func (s *Store) GetAllWeatherFrom(date time.Time) ([]models.WeatherEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, weather_icon_id, date, min, max, humidity, pressure, wind, degrees
		FROM weather
		WHERE date >= ?
		ORDER BY date ASC
	`, dates.ToMillis(dates.Normalize(date)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.WeatherEntry{}
	for rows.Next() {
		e, err := scanWeather(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetWeatherByDate returns the entry for date, or nil when there is none.
func (s *Store) GetWeatherByDate(date time.Time) (*models.WeatherEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, weather_icon_id, date, min, max, humidity, pressure, wind, degrees
		FROM weather
		WHERE date = ?
	`, dates.ToMillis(dates.Normalize(date)))

	e, err := scanWeather(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CountFrom counts rows dated on or after date.
func (s *Store) CountFrom(date time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM weather WHERE date >= ?`, dates.ToMillis(dates.Normalize(date))).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWeather(sc scanner) (*models.WeatherEntry, error) {
	var e models.WeatherEntry
	var ms int64
	if err := sc.Scan(&e.ID, &e.WeatherIconID, &ms, &e.Min, &e.Max, &e.Humidity, &e.Pressure, &e.Wind, &e.Degrees); err != nil {
		return nil, err
	}
	e.Date = dates.FromMillis(ms)
	return &e, nil
}

// WeatherFrom returns a live view of list entries dated on or after date.
func (s *Store) WeatherFrom(date time.Time) *View[[]models.ListWeatherEntry] {
	day := dates.Normalize(date)
	return newView(s, "weather from "+dates.Format(day), func() ([]models.ListWeatherEntry, error) {
		return s.GetWeatherFrom(day)
	})
}

// WeatherByDate returns a live view of the entry for date. It resolves to nil
// while no row exists.
func (s *Store) WeatherByDate(date time.Time) *View[*models.WeatherEntry] {
	day := dates.Normalize(date)
	return newView(s, "weather on "+dates.Format(day), func() (*models.WeatherEntry, error) {
		return s.GetWeatherByDate(day)
	})
}

// watch registers fn to run after every write until the returned func is called.
func (s *Store) watch(fn func()) func() {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) invalidate() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		s.exec.Execute(fn)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		log.Printf("store: close: %v", err)
		return err
	}
	return nil
}
