package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lox/sunshine/internal/models"
)

var today = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func TestForWeather(t *testing.T) {
	e := models.WeatherEntry{WeatherIconID: 500, Date: today, Max: 21.4, Min: 9.6}

	n := ForWeather(e, true)
	if n.Title != Title {
		t.Errorf("Title = %q", n.Title)
	}
	want := "Forecast: Light rain - High: 21°C Low: 10°C"
	if n.Body != want {
		t.Errorf("Body = %q, want %q", n.Body, want)
	}

	n = ForWeather(e, false)
	if !strings.Contains(n.Body, "°F") {
		t.Errorf("imperial Body = %q, want °F", n.Body)
	}
}

func TestWebhookNotifier(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if _, err := uuid.Parse(r.Header.Get(DeliveryHeader)); err != nil {
			t.Errorf("%s = %q: %v", DeliveryHeader, r.Header.Get(DeliveryHeader), err)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := ForWeather(models.WeatherEntry{WeatherIconID: 800, Date: today, Max: 25, Min: 12}, true)
	if err := NewWebhookNotifier(srv.URL).Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got.Body != n.Body || !got.Date.Equal(today) {
		t.Errorf("webhook received %+v, want %+v", got, n)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL).Notify(context.Background(), Notification{Title: Title})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("err = %v, want status 502", err)
	}
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Notification) error { return f.err }

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	m := Multi{LogNotifier{}, failingNotifier{boom}}
	if err := m.Notify(context.Background(), Notification{Title: Title, Date: today}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if err := (Multi{LogNotifier{}}).Notify(context.Background(), Notification{}); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
