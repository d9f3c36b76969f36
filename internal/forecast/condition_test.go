package forecast

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{800, "Clear"},
		{501, "Moderate rain"},
		{231, "Thunderstorm"},
		{531, "Rain"},
		{804, "Overcast clouds"},
		{960, "Severe weather"},
		{42, "Unknown (42)"},
	}
	for _, tt := range tests {
		if got := Describe(tt.code); got != tt.want {
			t.Errorf("Describe(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestGroup(t *testing.T) {
	tests := []struct {
		code int
		want ConditionGroup
	}{
		{200, GroupStorm},
		{321, GroupDrizzle},
		{511, GroupRain},
		{601, GroupSnow},
		{741, GroupFog},
		{800, GroupClear},
		{803, GroupCloudy},
		{905, GroupExtreme},
		{100, GroupUnknown},
	}
	for _, tt := range tests {
		if got := Group(tt.code); got != tt.want {
			t.Errorf("Group(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	if got := FormatTemperature(21.4, true); got != "21°C" {
		t.Errorf("metric = %q, want 21°C", got)
	}
	if got := FormatTemperature(0, false); got != "32°F" {
		t.Errorf("imperial = %q, want 32°F", got)
	}
	if got := FormatTemperature(-40, false); got != "-40°F" {
		t.Errorf("imperial = %q, want -40°F", got)
	}
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22.4, "N"},
		{22.5, "NE"},
		{90, "E"},
		{200, "S"},
		{315, "NW"},
		{350, "N"},
		{-90, "W"},
	}
	for _, tt := range tests {
		if got := CompassDirection(tt.deg); got != tt.want {
			t.Errorf("CompassDirection(%.1f) = %s, want %s", tt.deg, got, tt.want)
		}
	}
}

func TestFormatWind(t *testing.T) {
	if got := FormatWind(10, 90, true); got != "10 km/h E" {
		t.Errorf("metric = %q", got)
	}
	if got := FormatWind(10, 90, false); got != "6 mph E" {
		t.Errorf("imperial = %q", got)
	}
}

func TestPaletteFor(t *testing.T) {
	if got := PaletteFor(800); got != palettes[GroupClear] {
		t.Errorf("PaletteFor(800) = %+v, want clear palette", got)
	}
	if got := PaletteFor(502); got != palettes[GroupRain] {
		t.Errorf("PaletteFor(502) = %+v, want rain palette", got)
	}
	if got := PaletteFor(42); got != DefaultPalette {
		t.Errorf("PaletteFor(42) = %+v, want default", got)
	}
}
