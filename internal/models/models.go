package models

import "time"

// WeatherEntry is one day's forecast. Parsed entries have ID zero; stored
// entries carry the row ID. Date is a canonical UTC-midnight day and is the
// identity key.
type WeatherEntry struct {
	ID            int64     `json:"id"`
	WeatherIconID int       `json:"weather_icon_id"`
	Date          time.Time `json:"date"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	Wind          float64   `json:"wind"`
	Degrees       float64   `json:"degrees"`
}

// ListWeatherEntry is the projection shown in the forecast list.
type ListWeatherEntry struct {
	ID            int64     `json:"id"`
	WeatherIconID int       `json:"weather_icon_id"`
	Date          time.Time `json:"date"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
}

func (e WeatherEntry) ListEntry() ListWeatherEntry {
	return ListWeatherEntry{
		ID:            e.ID,
		WeatherIconID: e.WeatherIconID,
		Date:          e.Date,
		Min:           e.Min,
		Max:           e.Max,
	}
}
