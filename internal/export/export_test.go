package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lox/sunshine/internal/models"
)

var day = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func sample() []models.WeatherEntry {
	return []models.WeatherEntry{
		{ID: 7, WeatherIconID: 800, Date: day, Min: 9.5, Max: 21, Humidity: 60, Pressure: 1013, Wind: 4, Degrees: 180},
		{ID: 8, WeatherIconID: 501, Date: day.AddDate(0, 0, 1), Min: 11, Max: 17.25, Humidity: 88, Pressure: 1004, Wind: 9, Degrees: 225},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "date,weather_icon_id,min,max,humidity,pressure,wind,degrees" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-10-14,800,9.5,21,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); !strings.HasPrefix(got, "date,") {
		t.Errorf("output = %q, want header only", got)
	}
}

func TestReadCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := sample()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		want[i].ID = 0
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadCSV_BadDate(t *testing.T) {
	in := "date,weather_icon_id,min,max,humidity,pressure,wind,degrees\n14/10/2026,800,1,2,3,4,5,6\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("ReadCSV succeeded with bad date")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Errorf("ReadCSV(empty) = %v, %v", got, err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var records []Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1].Date != "2026-10-15" || records[1].Max != 17.25 {
		t.Errorf("records = %+v", records)
	}

	if err := Write(&buf, "xml", sample()); err == nil {
		t.Error("Write accepted unknown format")
	}
}
