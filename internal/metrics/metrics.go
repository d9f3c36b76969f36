package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForecastAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunshine_forecast_api_calls_total",
			Help: "Total forecast provider API calls",
		},
		[]string{"status"},
	)

	ForecastAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sunshine_forecast_api_latency_seconds",
			Help:    "Forecast provider API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunshine_sync_cycles_total",
			Help: "Sync cycles by outcome (ok, empty, transport_error, format_error, skipped)",
		},
		[]string{"outcome"},
	)

	EntriesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sunshine_entries_stored_total",
			Help: "Total forecast entries written to the local store",
		},
	)

	EntriesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sunshine_entries_purged_total",
			Help: "Total stale forecast entries deleted from the local store",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunshine_notifications_total",
			Help: "New-weather notifications by result",
		},
		[]string{"result"},
	)
)
