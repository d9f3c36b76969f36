package prefs

import (
	"testing"
	"time"
)

type mapBackend map[string]string

func (m mapBackend) GetPreference(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapBackend) SetPreference(key, value string) error {
	m[key] = value
	return nil
}

func (m mapBackend) DeletePreference(key string) error {
	delete(m, key)
	return nil
}

func TestDefaults(t *testing.T) {
	p := New(mapBackend{}, Defaults{})

	if got := p.Location(); got != "94043,USA" {
		t.Errorf("Location() = %q, want 94043,USA", got)
	}
	if !p.IsMetric() {
		t.Error("IsMetric() = false, want true")
	}
	if p.LocationLatLonAvailable() {
		t.Error("LocationLatLonAvailable() = true with nothing stored")
	}
	if p.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true with zero-value defaults")
	}

	p = New(mapBackend{}, DefaultDefaults)
	if !p.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = false with DefaultDefaults")
	}
}

func TestCoordinates(t *testing.T) {
	p := New(mapBackend{}, DefaultDefaults)

	if err := p.SetCoordinates(-36.794, 146.977); err != nil {
		t.Fatal(err)
	}
	lat, lon, ok := p.Coordinates()
	if !ok || lat != -36.794 || lon != 146.977 {
		t.Errorf("Coordinates() = %v, %v, %v", lat, lon, ok)
	}

	if err := p.SetLocation("Bright,AU"); err != nil {
		t.Fatal(err)
	}
	if p.LocationLatLonAvailable() {
		t.Error("coordinates survived SetLocation")
	}
	if got := p.Location(); got != "Bright,AU" {
		t.Errorf("Location() = %q, want Bright,AU", got)
	}
}

func TestUnits(t *testing.T) {
	p := New(mapBackend{}, DefaultDefaults)
	if err := p.SetUnits(UnitsImperial); err != nil {
		t.Fatal(err)
	}
	if p.IsMetric() {
		t.Error("IsMetric() = true after setting imperial")
	}
	if err := p.SetUnits("kelvin"); err == nil {
		t.Error("SetUnits accepted kelvin")
	}
}

func TestLastNotification(t *testing.T) {
	p := New(mapBackend{}, DefaultDefaults)
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	if !p.LastNotificationTime().IsZero() {
		t.Error("LastNotificationTime() not zero before any save")
	}
	if p.ElapsedSinceLastNotification(now) < 24*time.Hour {
		t.Error("elapsed before first notification is under a day")
	}

	if err := p.SaveLastNotificationTime(now.Add(-2 * time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got := p.ElapsedSinceLastNotification(now); got != 2*time.Hour {
		t.Errorf("ElapsedSinceLastNotification = %v, want 2h", got)
	}
}

func TestNotificationsToggle(t *testing.T) {
	p := New(mapBackend{}, DefaultDefaults)
	if err := p.SetNotificationsEnabled(false); err != nil {
		t.Fatal(err)
	}
	if p.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true after disabling")
	}
}
