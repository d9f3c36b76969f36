package ingest

import (
	"encoding/json"

	"github.com/lox/sunshine/internal/models"
)

const (
	FlagTempOutOfRange     = "temp_out_of_range"
	FlagTempInverted       = "temp_min_above_max"
	FlagHumidityInvalid    = "humidity_invalid"
	FlagWindDirInvalid     = "wind_dir_invalid"
	FlagWindSpeedUnlikely  = "wind_speed_unlikely"
	FlagPressureOutOfRange = "pressure_out_of_range"
)

// ValidateEntry flags implausible values. Flagged entries are still stored.
func ValidateEntry(e models.WeatherEntry) []string {
	var flags []string

	if e.Min < -90 || e.Min > 60 || e.Max < -90 || e.Max > 60 {
		flags = append(flags, FlagTempOutOfRange)
	}
	if e.Min > e.Max {
		flags = append(flags, FlagTempInverted)
	}
	if e.Humidity < 0 || e.Humidity > 100 {
		flags = append(flags, FlagHumidityInvalid)
	}
	if e.Degrees < 0 || e.Degrees > 360 {
		flags = append(flags, FlagWindDirInvalid)
	}
	if e.Wind < 0 || e.Wind > 200 {
		flags = append(flags, FlagWindSpeedUnlikely)
	}
	if e.Pressure < 800 || e.Pressure > 1100 {
		flags = append(flags, FlagPressureOutOfRange)
	}

	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
