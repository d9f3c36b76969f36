package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lox/sunshine/internal/dates"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) listDays() ([]ForecastDay, error) {
	entries, err := s.forecasts.CurrentWeatherForecasts().Load()
	if err != nil {
		return nil, err
	}
	metric := s.prefs.IsMetric()
	days := make([]ForecastDay, 0, len(entries))
	for _, e := range entries {
		days = append(days, newForecastDay(e, metric))
	}
	return days, nil
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	days, err := s.listDays()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleAPIForecastDay(w http.ResponseWriter, r *http.Request) {
	date, err := dates.Parse(r.PathValue("date"))
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	e, err := s.forecasts.WeatherByDate(date).Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "no forecast for "+dates.Format(date), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newForecastDetail(e, s.prefs.IsMetric()))
}

func (s *Server) handleAPIIngestRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.runs.GetRecentIngestRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := make([]IngestRunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, newIngestRunView(run))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAPISync(w http.ResponseWriter, r *http.Request) {
	status := "queued"
	if s.syncer.InFlight() {
		status = "in_flight"
	} else {
		s.syncer.StartImmediateSync()
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": status})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok", SyncInFlight: s.syncer.InFlight()}

	days, err := s.listDays()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	health.ForecastDays = len(days)

	runs, err := s.runs.GetRecentIngestRuns(1)
	if err != nil {
		health.Errors = append(health.Errors, "ingest runs: "+err.Error())
	} else if len(runs) > 0 {
		last := newIngestRunView(runs[0])
		health.LastSync = &last
		if !last.Success {
			health.Errors = append(health.Errors, "last sync failed: "+last.ErrorMessage)
		}
	}

	if health.ForecastDays == 0 {
		health.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, health)
}
