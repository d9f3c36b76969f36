package dates

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	melbourne := time.FixedZone("AEDT", 11*3600)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc afternoon", time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC), "2026-10-14T00:00:00Z"},
		{"utc midnight", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), "2026-10-14T00:00:00Z"},
		{"ahead of utc early morning", time.Date(2026, 10, 15, 8, 0, 0, 0, melbourne), "2026-10-14T00:00:00Z"},
		{"ahead of utc late", time.Date(2026, 10, 15, 23, 0, 0, 0, melbourne), "2026-10-15T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in).Format(time.RFC3339)
			if got != tt.want {
				t.Errorf("Normalize(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := Format(AddDays(d, 1)); got != "2027-01-01" {
		t.Errorf("AddDays(+1) = %s, want 2027-01-01", got)
	}
	if got := Format(AddDays(d, -2)); got != "2026-12-29" {
		t.Errorf("AddDays(-2) = %s, want 2026-12-29", got)
	}
}

func TestMillisRoundTrip(t *testing.T) {
	d := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	ms := ToMillis(d)
	if ms%DayInMillis != 0 {
		t.Errorf("ToMillis(%v) = %d, not on a day boundary", d, ms)
	}
	if !FromMillis(ms).Equal(d) {
		t.Errorf("FromMillis(%d) = %v, want %v", ms, FromMillis(ms), d)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2026-10-14")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !IsNormalized(d) {
		t.Errorf("Parse returned non-canonical %v", d)
	}
	if _, err := Parse("14/10/2026"); err == nil {
		t.Error("Parse accepted a non-ISO date")
	}
}
