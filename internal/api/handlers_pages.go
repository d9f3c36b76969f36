package api

import (
	"log"
	"net/http"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/forecast"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.forecasts.CurrentWeatherForecasts().Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metric := s.prefs.IsMetric()
	page := ListPage{
		Location: s.prefs.Location(),
		Units:    s.prefs.Units(),
		Palette:  forecast.DefaultPalette,
	}
	if len(entries) > 0 {
		first, err := s.forecasts.WeatherByDate(entries[0].Date).Load()
		if err != nil {
			log.Printf("api: load %s: %v", dates.Format(entries[0].Date), err)
		} else if first != nil {
			d := newForecastDetail(first, metric)
			page.Today = &d
			page.Palette = forecast.PaletteFor(first.WeatherIconID)
		}
		for _, e := range entries[1:] {
			page.Days = append(page.Days, newForecastDay(e, metric))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", page); err != nil {
		log.Printf("api: render index: %v", err)
	}
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
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
		http.NotFound(w, r)
		return
	}

	page := DayPage{
		Location: s.prefs.Location(),
		Day:      newForecastDetail(e, s.prefs.IsMetric()),
		Palette:  forecast.PaletteFor(e.WeatherIconID),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "day.html", page); err != nil {
		log.Printf("api: render day: %v", err)
	}
}
