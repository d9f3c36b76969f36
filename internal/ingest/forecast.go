package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/httputil"
	"github.com/lox/sunshine/internal/metrics"
	"github.com/lox/sunshine/internal/models"
)

const (
	DefaultBaseURL = "https://andfun-weather.udacity.com/staticweather"
	DefaultDays    = 14

	Source   = "owm"
	Endpoint = "forecast/daily"
)

// Query selects the forecast location. Coordinates win over Place when set.
type Query struct {
	Place     string
	Lat, Lon  float64
	HasCoords bool
}

// LocationID identifies the query in ingest run records.
func (q Query) LocationID() string {
	if q.HasCoords {
		return fmt.Sprintf("%.4f,%.4f", q.Lat, q.Lon)
	}
	return q.Place
}

// FetchResult describes one provider call for ingest auditing.
type FetchResult struct {
	HTTPStatus   int
	ResponseSize int
	RecordCount  int
	QualityFlags int
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Days    int

	// RequestsPerSecond and Burst bound provider calls.
	RequestsPerSecond float64
	Burst             int

	// Retries is the number of extra attempts after a 429 or 5xx.
	Retries uint64
}

// Client fetches daily forecasts from an OpenWeatherMap-style API.
type Client struct {
	cfg     ClientConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "forecast-api",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("ingest: circuit %s %s -> %s", name, from, to)
		},
	})

	return &Client{
		cfg:     cfg,
		client:  httputil.NewClient(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
		now:     time.Now,
	}
}

// URL builds the request URL for q.
func (c *Client) URL(q Query) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	v := u.Query()
	if q.HasCoords {
		v.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		v.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	} else {
		v.Set("q", q.Place)
	}
	v.Set("mode", "json")
	v.Set("units", "metric")
	v.Set("cnt", strconv.Itoa(c.cfg.Days))
	if c.cfg.APIKey != "" {
		v.Set("appid", c.cfg.APIKey)
	}
	u.RawQuery = v.Encode()
	return u.String(), nil
}

// Fetch performs one provider call and parses the response.
func (c *Client) Fetch(ctx context.Context, q Query) ([]models.WeatherEntry, *FetchResult, error) {
	result := &FetchResult{}

	reqURL, err := c.URL(q)
	if err != nil {
		return nil, result, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, result, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	start := time.Now()
	body, status, err := c.get(ctx, reqURL)
	metrics.ForecastAPILatency.Observe(time.Since(start).Seconds())
	result.HTTPStatus = status
	result.ResponseSize = len(body)
	if err != nil {
		metrics.ForecastAPICallsTotal.WithLabelValues("error").Inc()
		return nil, result, err
	}
	metrics.ForecastAPICallsTotal.WithLabelValues("ok").Inc()

	entries, err := Parse(body, c.now())
	if err != nil {
		return nil, result, err
	}
	result.RecordCount = len(entries)

	for _, e := range entries {
		if flags := ValidateEntry(e); len(flags) > 0 {
			result.QualityFlags++
			log.Printf("ingest: %s quality flags %s", dates.Format(e.Date), QualityFlagsToJSON(flags))
		}
	}

	return entries, result, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	var body []byte
	var status int

	operation := func() error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("User-Agent", httputil.UserAgent)

			resp, err := c.client.Do(req)
			if err != nil {
				return nil, backoff.Permanent(&TransportError{Err: fmt.Errorf("fetch forecast: %w", err)})
			}
			defer resp.Body.Close()
			status = resp.StatusCode

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("fetch forecast: %s", string(b))}
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return nil, backoff.Permanent(&TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("fetch forecast: %s", string(b))})
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return nil, backoff.Permanent(&TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)})
			}
			return nil, nil
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(&TransportError{Err: err})
		}
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.Retries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, status, err
	}
	return body, status, nil
}

// ForecastResponse is the provider's daily forecast document.
type ForecastResponse struct {
	Cod  responseCode  `json:"cod"`
	City *ForecastCity `json:"city"`
	List []ForecastDay `json:"list"`
}

type ForecastCity struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Country string `json:"country"`
}

type ForecastDay struct {
	Dt   int64 `json:"dt"`
	Temp *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Pressure float64 `json:"pressure"`
	Humidity float64 `json:"humidity"`
	Weather  []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// responseCode accepts "cod" as either a JSON string or number.
type responseCode int

func (c *responseCode) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unq
	}
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("cod %q: %w", s, err)
	}
	*c = responseCode(n)
	return nil
}

// Parse converts a provider document into one entry per listed day. Day i is
// dated i days after the canonical today of now; the provider's own timestamps
// are not used.
func Parse(body []byte, now time.Time) ([]models.WeatherEntry, error) {
	var data ForecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("unmarshal: %w", err)}
	}

	switch data.Cod {
	case 0, http.StatusOK:
	case http.StatusNotFound:
		return nil, &FormatError{Err: ErrInvalidLocation}
	default:
		return nil, &FormatError{Err: fmt.Errorf("provider code %d", data.Cod)}
	}

	today := dates.Today(now)
	entries := make([]models.WeatherEntry, 0, len(data.List))
	for i, day := range data.List {
		if day.Temp == nil {
			return nil, &FormatError{Err: fmt.Errorf("list[%d]: missing temp", i)}
		}
		if len(day.Weather) == 0 {
			return nil, &FormatError{Err: fmt.Errorf("list[%d]: missing weather", i)}
		}
		entries = append(entries, models.WeatherEntry{
			WeatherIconID: day.Weather[0].ID,
			Date:          dates.AddDays(today, i),
			Min:           day.Temp.Min,
			Max:           day.Temp.Max,
			Humidity:      day.Humidity,
			Pressure:      day.Pressure,
			Wind:          day.Speed,
			Degrees:       day.Deg,
		})
	}
	return entries, nil
}
