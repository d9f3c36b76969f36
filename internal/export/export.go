// Package export converts stored forecasts to and from JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Record is one exported day. Dates are YYYY-MM-DD.
type Record struct {
	Date          string  `csv:"date" json:"date"`
	WeatherIconID int     `csv:"weather_icon_id" json:"weather_icon_id"`
	Min           float64 `csv:"min" json:"min"`
	Max           float64 `csv:"max" json:"max"`
	Humidity      float64 `csv:"humidity" json:"humidity"`
	Pressure      float64 `csv:"pressure" json:"pressure"`
	Wind          float64 `csv:"wind" json:"wind"`
	Degrees       float64 `csv:"degrees" json:"degrees"`
}

func toRecords(entries []models.WeatherEntry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			Date:          dates.Format(e.Date),
			WeatherIconID: e.WeatherIconID,
			Min:           e.Min,
			Max:           e.Max,
			Humidity:      e.Humidity,
			Pressure:      e.Pressure,
			Wind:          e.Wind,
			Degrees:       e.Degrees,
		})
	}
	return records
}

// Write encodes entries in the named format.
func Write(w io.Writer, format string, entries []models.WeatherEntry) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toRecords(entries))
	case FormatCSV:
		return WriteCSV(w, entries)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV writes a header row followed by one row per entry.
func WriteCSV(w io.Writer, entries []models.WeatherEntry) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(entries) == 0 {
		if err := enc.EncodeHeader(Record{}); err != nil {
			return fmt.Errorf("encode header: %w", err)
		}
	}
	for _, r := range toRecords(entries) {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV.
func ReadCSV(r io.Reader) ([]models.WeatherEntry, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var entries []models.WeatherEntry
	for {
		var rec Record
		if err := dec.Decode(&rec); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(entries)+1, err)
		}

		day, err := dates.Parse(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", len(entries)+1, rec.Date, err)
		}
		entries = append(entries, models.WeatherEntry{
			WeatherIconID: rec.WeatherIconID,
			Date:          day,
			Min:           rec.Min,
			Max:           rec.Max,
			Humidity:      rec.Humidity,
			Pressure:      rec.Pressure,
			Wind:          rec.Wind,
			Degrees:       rec.Degrees,
		})
	}
	return entries, nil
}
