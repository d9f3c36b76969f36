package api

import (
	"fmt"
	"time"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/forecast"
	"github.com/lox/sunshine/internal/models"
	"github.com/lox/sunshine/internal/store"
)

// ForecastDay is one row of the list view.
type ForecastDay struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	WeatherIconID int     `json:"weather_icon_id"`
	Description   string  `json:"description"`
	Condition     string  `json:"condition"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	High          string  `json:"high"`
	Low           string  `json:"low"`
}

func newForecastDay(e models.ListWeatherEntry, metric bool) ForecastDay {
	return ForecastDay{
		ID:            e.ID,
		Date:          dates.Format(e.Date),
		WeatherIconID: e.WeatherIconID,
		Description:   forecast.Describe(e.WeatherIconID),
		Condition:     string(forecast.Group(e.WeatherIconID)),
		Min:           e.Min,
		Max:           e.Max,
		High:          forecast.FormatTemperature(e.Max, metric),
		Low:           forecast.FormatTemperature(e.Min, metric),
	}
}

// ForecastDetail is the detail view for one day.
type ForecastDetail struct {
	ForecastDay
	Humidity float64 `json:"humidity"`
	Pressure float64 `json:"pressure"`
	Wind     float64 `json:"wind"`
	Degrees  float64 `json:"degrees"`
	WindText string  `json:"wind_text"`
	Summary  string  `json:"summary"`
}

const shareHashtag = "#SunshineApp"

func newForecastDetail(e *models.WeatherEntry, metric bool) ForecastDetail {
	day := newForecastDay(e.ListEntry(), metric)
	return ForecastDetail{
		ForecastDay: day,
		Humidity:    e.Humidity,
		Pressure:    e.Pressure,
		Wind:        e.Wind,
		Degrees:     e.Degrees,
		WindText:    forecast.FormatWind(e.Wind, e.Degrees, metric),
		Summary:     fmt.Sprintf("%s - %s - %s/%s %s", day.Date, day.Description, day.High, day.Low, shareHashtag),
	}
}

// IngestRunView flattens the nullable audit columns.
type IngestRunView struct {
	ID           int64      `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	LocationID   string     `json:"location_id,omitempty"`
	HTTPStatus   int64      `json:"http_status,omitempty"`
	Records      int64      `json:"records_parsed"`
	Success      bool       `json:"success"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

func newIngestRunView(r store.IngestRun) IngestRunView {
	v := IngestRunView{
		ID:           r.ID,
		StartedAt:    r.StartedAt,
		LocationID:   r.LocationID.String,
		HTTPStatus:   r.HTTPStatus.Int64,
		Records:      r.RecordsParsed.Int64,
		Success:      r.Success,
		ErrorMessage: r.ErrorMessage.String,
	}
	if r.FinishedAt.Valid {
		t := r.FinishedAt.Time
		v.FinishedAt = &t
	}
	return v
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status       string         `json:"status"`
	ForecastDays int            `json:"forecast_days"`
	SyncInFlight bool           `json:"sync_in_flight"`
	LastSync     *IngestRunView `json:"last_sync,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
}

// ListPage feeds the index template.
type ListPage struct {
	Location string
	Units    string
	Today    *ForecastDetail
	Days     []ForecastDay
	Palette  forecast.Palette
}

// DayPage feeds the day template.
type DayPage struct {
	Location string
	Day      ForecastDetail
	Palette  forecast.Palette
}
