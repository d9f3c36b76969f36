package api

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/sunshine/internal/models"
	"github.com/lox/sunshine/internal/prefs"
	"github.com/lox/sunshine/internal/store"
)

// Forecasts is the read side of the repository.
type Forecasts interface {
	CurrentWeatherForecasts() *store.View[[]models.ListWeatherEntry]
	WeatherByDate(date time.Time) *store.View[*models.WeatherEntry]
}

// Syncer triggers and reports sync cycles.
type Syncer interface {
	StartImmediateSync()
	InFlight() bool
}

// IngestRuns lists recent sync fetch records.
type IngestRuns interface {
	GetRecentIngestRuns(limit int) ([]store.IngestRun, error)
}

type Server struct {
	forecasts Forecasts
	syncer    Syncer
	runs      IngestRuns
	prefs     *prefs.Preferences
	addr      string
	tmpl      *template.Template
}

func NewServer(forecasts Forecasts, syncer Syncer, runs IngestRuns, p *prefs.Preferences, addr string) *Server {
	return &Server{
		forecasts: forecasts,
		syncer:    syncer,
		runs:      runs,
		prefs:     p,
		addr:      addr,
		tmpl:      newTemplates(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /day/{date}", s.handleDay)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/forecast", s.handleAPIForecast)
	mux.HandleFunc("GET /api/forecast/{date}", s.handleAPIForecastDay)
	mux.HandleFunc("GET /api/ingest-runs", s.handleAPIIngestRuns)
	mux.HandleFunc("POST /api/sync", s.handleAPISync)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on %s", s.addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
