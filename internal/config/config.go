// Package config holds process configuration. Fields carry kong tags for
// flags and environment variables and validator tags for range checks.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DBPath string `name:"db" help:"Path to SQLite database." default:"data/sunshine.db" env:"SUNSHINE_DB" validate:"required"`
	Addr   string `help:"HTTP listen address." default:":8080" env:"SUNSHINE_ADDR" validate:"required"`

	BaseURL           string        `name:"base-url" help:"Forecast API base URL." default:"https://andfun-weather.udacity.com/staticweather" env:"SUNSHINE_BASE_URL" validate:"required,url"`
	APIKey            string        `name:"api-key" help:"Forecast API key, sent as appid." env:"OWM_API_KEY"`
	Days              int           `help:"Forecast days to request." default:"14" env:"SUNSHINE_DAYS" validate:"min=1,max=16"`
	SyncInterval      time.Duration `name:"sync-interval" help:"Interval between scheduled syncs." default:"3h" env:"SUNSHINE_SYNC_INTERVAL" validate:"min=1m"`
	FetchTimeout      time.Duration `name:"fetch-timeout" help:"Deadline for one sync cycle." default:"1m" env:"SUNSHINE_FETCH_TIMEOUT" validate:"min=1s"`
	RequestsPerSecond float64       `name:"rate" help:"Provider requests per second." default:"1" env:"SUNSHINE_RATE" validate:"gt=0"`
	Burst             int           `help:"Provider request burst." default:"1" env:"SUNSHINE_BURST" validate:"min=1"`
	Retries           uint64        `help:"Extra attempts after a 429 or 5xx." default:"0" env:"SUNSHINE_RETRIES" validate:"max=10"`

	Location      string `help:"Default forecast location." default:"94043,USA" env:"SUNSHINE_LOCATION" validate:"required"`
	Units         string `help:"Default display units." default:"metric" enum:"metric,imperial" env:"SUNSHINE_UNITS" validate:"oneof=metric imperial"`
	Notifications bool   `help:"Enable new-weather notifications by default." default:"true" negatable:"" env:"SUNSHINE_NOTIFICATIONS"`
	WebhookURL    string `name:"webhook-url" help:"POST notifications to this URL." env:"SUNSHINE_WEBHOOK_URL" validate:"omitempty,url"`
}

// Default mirrors the flag defaults for callers that do not parse flags.
func Default() Config {
	return Config{
		DBPath:            "data/sunshine.db",
		Addr:              ":8080",
		BaseURL:           "https://andfun-weather.udacity.com/staticweather",
		Days:              14,
		SyncInterval:      3 * time.Hour,
		FetchTimeout:      time.Minute,
		RequestsPerSecond: 1,
		Burst:             1,
		Location:          "94043,USA",
		Units:             "metric",
		Notifications:     true,
	}
}

var validate = validator.New()

// Validate reports every field that fails its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LoadDotEnv loads variables from the given files, defaulting to .env. Missing
// files are skipped and variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			log.Printf("config: no %s file, using environment", p)
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		log.Printf("config: loaded %s", p)
	}
	return nil
}
