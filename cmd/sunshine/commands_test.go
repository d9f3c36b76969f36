package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lox/sunshine/internal/config"
	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/export"
	"github.com/lox/sunshine/internal/inject"
	"github.com/lox/sunshine/internal/models"
)

const oneDay = `{"cod":"200","list":[{"temp":{"min":8,"max":19},"pressure":1011,"humidity":70,"weather":[{"id":801}],"speed":3,"deg":200}]}`

func newTestApp(t *testing.T) (*inject.App, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(oneDay))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "sunshine.db")
	cfg.BaseURL = srv.URL
	cfg.Addr = "127.0.0.1:0"
	cfg.Notifications = false

	app, err := inject.New(cfg)
	if err != nil {
		t.Fatalf("inject.New: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app, &calls
}

func TestServe_NoSyncNeverFetches(t *testing.T) {
	app, calls := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := (&ServeCmd{NoSync: true}).Run(&Env{Ctx: ctx, App: app, Out: &out}); err != nil {
		t.Fatalf("serve: %v", err)
	}

	// A read as the HTTP handlers do it.
	if _, err := app.Repository.CurrentWeatherForecasts().Load(); err != nil {
		t.Fatal(err)
	}
	executor.Wait(app.Executors.DiskIO)
	executor.Wait(app.Executors.NetworkIO)

	if n := calls.Load(); n != 0 {
		t.Errorf("provider called %d times with --no-sync", n)
	}
	if app.Source.InFlight() {
		t.Error("sync in flight with --no-sync")
	}
}

func TestImport_WritesThroughDiskQueue(t *testing.T) {
	app, _ := newTestApp(t)
	today := dates.Today(time.Now())

	path := filepath.Join(t.TempDir(), "forecast.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := []models.WeatherEntry{
		{WeatherIconID: 800, Date: today, Min: 9, Max: 21, Humidity: 55, Pressure: 1015, Wind: 4, Degrees: 90},
		{WeatherIconID: 500, Date: dates.AddDays(today, 1), Min: 7, Max: 16, Humidity: 80, Pressure: 1002, Wind: 11, Degrees: 270},
	}
	if err := export.WriteCSV(f, entries); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var out bytes.Buffer
	if err := (&ImportCmd{File: path}).Run(&Env{Ctx: context.Background(), App: app, Out: &out}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), "imported 2 entries") {
		t.Errorf("output = %q", out.String())
	}

	if n, err := app.Store.CountFrom(today); err != nil || n != 2 {
		t.Errorf("CountFrom = %d, %v, want 2", n, err)
	}
	e, err := app.Store.GetWeatherByDate(dates.AddDays(today, 1))
	if err != nil || e == nil || e.WeatherIconID != 500 {
		t.Errorf("imported entry = %+v, %v", e, err)
	}
}
