package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }, "DBPath"},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }, "BaseURL"},
		{"zero days", func(c *Config) { c.Days = 0 }, "Days"},
		{"too many days", func(c *Config) { c.Days = 30 }, "Days"},
		{"sync interval too short", func(c *Config) { c.SyncInterval = 10 * time.Second }, "SyncInterval"},
		{"zero rate", func(c *Config) { c.RequestsPerSecond = 0 }, "RequestsPerSecond"},
		{"unknown units", func(c *Config) { c.Units = "kelvin" }, "Units"},
		{"bad webhook", func(c *Config) { c.WebhookURL = "nope" }, "WebhookURL"},
		{"too many retries", func(c *Config) { c.Retries = 50 }, "Retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantField)
			}
		})
	}
}

func TestValidate_WebhookOptional(t *testing.T) {
	cfg := Default()
	cfg.WebhookURL = "https://hooks.example.com/sunshine"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SUNSHINE_TEST_LOCATION=London,UK\nSUNSHINE_TEST_UNITS=imperial\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SUNSHINE_TEST_UNITS", "metric")
	t.Cleanup(func() { os.Unsetenv("SUNSHINE_TEST_LOCATION") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SUNSHINE_TEST_LOCATION"); got != "London,UK" {
		t.Errorf("SUNSHINE_TEST_LOCATION = %q", got)
	}
	if got := os.Getenv("SUNSHINE_TEST_UNITS"); got != "metric" {
		t.Errorf("SUNSHINE_TEST_UNITS = %q, want existing value kept", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadDotEnv: %v", err)
	}
}
