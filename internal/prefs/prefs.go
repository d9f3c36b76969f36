// Package prefs is the persisted user preference set read by the sync
// pipeline: location, units, notification opt-in and the time of the last
// notification.
package prefs

import (
	"fmt"
	"log"
	"strconv"
	"time"
)

const (
	KeyLocation             = "location"
	KeyLatitude             = "location_latitude"
	KeyLongitude            = "location_longitude"
	KeyUnits                = "units"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyLastNotification     = "last_notification"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Backend persists raw preference values.
type Backend interface {
	GetPreference(key string) (string, bool, error)
	SetPreference(key, value string) error
	DeletePreference(key string) error
}

// Defaults apply to keys that were never written.
type Defaults struct {
	Location             string
	Units                string
	NotificationsEnabled bool
}

var DefaultDefaults = Defaults{
	Location:             "94043,USA",
	Units:                UnitsMetric,
	NotificationsEnabled: true,
}

type Preferences struct {
	backend  Backend
	defaults Defaults
}

func New(backend Backend, defaults Defaults) *Preferences {
	if defaults.Location == "" {
		defaults.Location = DefaultDefaults.Location
	}
	if defaults.Units == "" {
		defaults.Units = DefaultDefaults.Units
	}
	return &Preferences{backend: backend, defaults: defaults}
}

func (p *Preferences) get(key string) (string, bool) {
	v, ok, err := p.backend.GetPreference(key)
	if err != nil {
		log.Printf("prefs: read %s: %v", key, err)
		return "", false
	}
	return v, ok
}

// Location returns the place string used when no coordinates are stored.
func (p *Preferences) Location() string {
	if v, ok := p.get(KeyLocation); ok && v != "" {
		return v
	}
	return p.defaults.Location
}

// SetLocation stores a place string and forgets any stored coordinates.
func (p *Preferences) SetLocation(location string) error {
	if err := p.backend.SetPreference(KeyLocation, location); err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return p.ResetCoordinates()
}

// Coordinates returns the stored latitude and longitude. ok is false when
// either is missing or unparseable.
func (p *Preferences) Coordinates() (lat, lon float64, ok bool) {
	latStr, latOK := p.get(KeyLatitude)
	lonStr, lonOK := p.get(KeyLongitude)
	if !latOK || !lonOK {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func (p *Preferences) LocationLatLonAvailable() bool {
	_, _, ok := p.Coordinates()
	return ok
}

func (p *Preferences) SetCoordinates(lat, lon float64) error {
	if err := p.backend.SetPreference(KeyLatitude, strconv.FormatFloat(lat, 'f', -1, 64)); err != nil {
		return fmt.Errorf("save latitude: %w", err)
	}
	if err := p.backend.SetPreference(KeyLongitude, strconv.FormatFloat(lon, 'f', -1, 64)); err != nil {
		return fmt.Errorf("save longitude: %w", err)
	}
	return nil
}

func (p *Preferences) ResetCoordinates() error {
	if err := p.backend.DeletePreference(KeyLatitude); err != nil {
		return fmt.Errorf("reset latitude: %w", err)
	}
	if err := p.backend.DeletePreference(KeyLongitude); err != nil {
		return fmt.Errorf("reset longitude: %w", err)
	}
	return nil
}

func (p *Preferences) Units() string {
	if v, ok := p.get(KeyUnits); ok && (v == UnitsMetric || v == UnitsImperial) {
		return v
	}
	return p.defaults.Units
}

func (p *Preferences) IsMetric() bool {
	return p.Units() == UnitsMetric
}

func (p *Preferences) SetUnits(units string) error {
	if units != UnitsMetric && units != UnitsImperial {
		return fmt.Errorf("unknown units %q", units)
	}
	return p.backend.SetPreference(KeyUnits, units)
}

func (p *Preferences) NotificationsEnabled() bool {
	v, ok := p.get(KeyNotificationsEnabled)
	if !ok {
		return p.defaults.NotificationsEnabled
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return p.defaults.NotificationsEnabled
	}
	return b
}

func (p *Preferences) SetNotificationsEnabled(enabled bool) error {
	return p.backend.SetPreference(KeyNotificationsEnabled, strconv.FormatBool(enabled))
}

// LastNotificationTime is the zero time if no notification was ever shown.
func (p *Preferences) LastNotificationTime() time.Time {
	v, ok := p.get(KeyLastNotification)
	if !ok {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ElapsedSinceLastNotification measures from the epoch when no notification
// was ever shown, so the first check always passes a one-day threshold.
func (p *Preferences) ElapsedSinceLastNotification(now time.Time) time.Duration {
	last := p.LastNotificationTime()
	if last.IsZero() {
		last = time.UnixMilli(0)
	}
	return now.Sub(last)
}

func (p *Preferences) SaveLastNotificationTime(t time.Time) error {
	return p.backend.SetPreference(KeyLastNotification, strconv.FormatInt(t.UnixMilli(), 10))
}
