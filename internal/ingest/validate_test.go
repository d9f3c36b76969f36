package ingest

import (
	"sort"
	"testing"

	"github.com/lox/sunshine/internal/models"
)

func validEntry() models.WeatherEntry {
	return models.WeatherEntry{
		WeatherIconID: 800,
		Date:          testNow,
		Min:           10,
		Max:           22,
		Humidity:      60,
		Pressure:      1013,
		Wind:          4,
		Degrees:       180,
	}
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(e *models.WeatherEntry)
		wantFlags []string
	}{
		{
			name:      "valid entry - no flags",
			mutate:    func(e *models.WeatherEntry) {},
			wantFlags: nil,
		},
		{
			name:      "max too hot",
			mutate:    func(e *models.WeatherEntry) { e.Max = 65 },
			wantFlags: []string{FlagTempOutOfRange},
		},
		{
			name:      "min too cold",
			mutate:    func(e *models.WeatherEntry) { e.Min = -95 },
			wantFlags: []string{FlagTempOutOfRange},
		},
		{
			name:      "min above max",
			mutate:    func(e *models.WeatherEntry) { e.Min = 25 },
			wantFlags: []string{FlagTempInverted},
		},
		{
			name:      "humidity over 100",
			mutate:    func(e *models.WeatherEntry) { e.Humidity = 101 },
			wantFlags: []string{FlagHumidityInvalid},
		},
		{
			name:      "wind direction at boundary - valid",
			mutate:    func(e *models.WeatherEntry) { e.Degrees = 360 },
			wantFlags: nil,
		},
		{
			name:      "wind direction negative",
			mutate:    func(e *models.WeatherEntry) { e.Degrees = -1 },
			wantFlags: []string{FlagWindDirInvalid},
		},
		{
			name:      "wind speed unlikely",
			mutate:    func(e *models.WeatherEntry) { e.Wind = 250 },
			wantFlags: []string{FlagWindSpeedUnlikely},
		},
		{
			name:      "pressure missing",
			mutate:    func(e *models.WeatherEntry) { e.Pressure = 0 },
			wantFlags: []string{FlagPressureOutOfRange},
		},
		{
			name: "multiple flags",
			mutate: func(e *models.WeatherEntry) {
				e.Humidity = -5
				e.Wind = 300
			},
			wantFlags: []string{FlagHumidityInvalid, FlagWindSpeedUnlikely},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			got := ValidateEntry(e)

			sort.Strings(got)
			want := append([]string(nil), tt.wantFlags...)
			sort.Strings(want)

			if len(got) != len(want) {
				t.Fatalf("ValidateEntry() = %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("ValidateEntry() = %v, want %v", got, want)
					break
				}
			}
		})
	}
}

func TestQualityFlagsToJSON(t *testing.T) {
	if got := QualityFlagsToJSON(nil); got != "" {
		t.Errorf("QualityFlagsToJSON(nil) = %q, want empty", got)
	}
	if got := QualityFlagsToJSON([]string{FlagTempInverted}); got != `["temp_min_above_max"]` {
		t.Errorf("QualityFlagsToJSON = %q", got)
	}
}
