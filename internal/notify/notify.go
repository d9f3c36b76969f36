// Package notify delivers the "new weather available" notification.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/forecast"
	"github.com/lox/sunshine/internal/httputil"
	"github.com/lox/sunshine/internal/models"
)

const Title = "Sunshine"

type Notification struct {
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Date          time.Time `json:"date"`
	WeatherIconID int       `json:"weather_icon_id"`
}

// Notifier shows a notification to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ForWeather builds the notification for one day's forecast.
func ForWeather(e models.WeatherEntry, metric bool) Notification {
	return Notification{
		Title: Title,
		Body: fmt.Sprintf("Forecast: %s - High: %s Low: %s",
			forecast.Describe(e.WeatherIconID),
			forecast.FormatTemperature(e.Max, metric),
			forecast.FormatTemperature(e.Min, metric)),
		Date:          e.Date,
		WeatherIconID: e.WeatherIconID,
	}
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("notify: %s [%s]: %s", n.Title, dates.Format(n.Date), n.Body)
	return nil
}

// DeliveryHeader carries a unique id per webhook delivery so receivers can
// drop duplicates.
const DeliveryHeader = "X-Sunshine-Delivery"

// WebhookNotifier POSTs notifications as JSON.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{url: url, client: httputil.NewClient()}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", httputil.UserAgent)
	req.Header.Set(DeliveryHeader, uuid.NewString())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post webhook: status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
