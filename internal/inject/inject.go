// Package inject builds the process-wide object graph once, at start-up.
package inject

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lox/sunshine/internal/config"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/ingest"
	"github.com/lox/sunshine/internal/live"
	"github.com/lox/sunshine/internal/notify"
	"github.com/lox/sunshine/internal/prefs"
	"github.com/lox/sunshine/internal/repository"
	"github.com/lox/sunshine/internal/store"
)

type App struct {
	Config     config.Config
	Executors  *executor.AppExecutors
	Store      *store.Store
	Prefs      *prefs.Preferences
	Client     *ingest.Client
	Source     *ingest.DataSource
	Repository *repository.Repository

	sub *live.Subscription
}

// New opens the database and wires the pipeline. The repository is started,
// so forecasts published from here on are persisted.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	exec := executor.New()
	st := store.New(db, exec.DiskIO)
	if err := st.Migrate(); err != nil {
		exec.Close()
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("inject: database %s migrated", cfg.DBPath)

	p := prefs.New(st, prefs.Defaults{
		Location:             cfg.Location,
		Units:                cfg.Units,
		NotificationsEnabled: cfg.Notifications,
	})

	client := ingest.NewClient(ingest.ClientConfig{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Days:              cfg.Days,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Retries:           cfg.Retries,
	})

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.WebhookURL != "" {
		notifier = notify.Multi{notify.LogNotifier{}, notify.NewWebhookNotifier(cfg.WebhookURL)}
	}

	source := ingest.NewDataSource(client, st, p, notifier, exec, ingest.SourceConfig{
		SyncInterval: cfg.SyncInterval,
		FetchTimeout: cfg.FetchTimeout,
	})
	repo := repository.New(st, source, exec)

	app := &App{
		Config:     cfg,
		Executors:  exec,
		Store:      st,
		Prefs:      p,
		Client:     client,
		Source:     source,
		Repository: repo,
	}
	app.sub = repo.Start()
	return app, nil
}

// Close stops the scheduler, lets queued work finish and closes the database.
// Forecasts still in flight are persisted before the executors exit.
func (a *App) Close() error {
	a.Source.Close()
	a.Executors.Close()
	a.sub.Cancel()
	return a.Store.Close()
}
