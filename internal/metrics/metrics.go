// Package metrics exposes Prometheus instrumentation for loads, analysis,
// the HTTP API and the outbound clients.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results.
const (
	ResultOK        = "ok"
	ResultNoData    = "no_data"
	ResultEmptyData = "empty_data"
	ResultError     = "error"
)

var (
	// Dataset loads
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uxlog_loads_total",
			Help: "Total number of dataset loads by source kind and result",
		},
		[]string{"source", "result"},
	)

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uxlog_load_duration_seconds",
			Help:    "Time to read, parse and analyze a dataset",
			Buckets: prometheus.DefBuckets,
		},
	)

	RowsAnalyzed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uxlog_rows_analyzed",
			Help: "Number of rows in the most recently analyzed dataset",
		},
	)

	StaleLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uxlog_stale_loads_total",
			Help: "Loads discarded because a newer load was published first",
		},
	)

	DataWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uxlog_data_warnings_total",
			Help: "Data-quality warnings raised during analysis, by rule",
		},
		[]string{"rule"},
	)

	// HTTP API
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uxlog_api_requests_total",
			Help: "Total HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uxlog_api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uxlog_live_clients",
			Help: "Open websocket connections receiving report updates",
		},
	)

	// Outbound clients
	SubtitleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uxlog_subtitle_requests_total",
			Help: "Subtitle suggestions by outcome (ok or fallback)",
		},
		[]string{"outcome"},
	)

	TelemetryEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uxlog_telemetry_events_total",
			Help: "Tracked events by outcome (sent, failed or dropped)",
		},
		[]string{"outcome"},
	)
)

// RecordLoad records one dataset load.
func RecordLoad(source, result string, d time.Duration, rows int) {
	LoadsTotal.WithLabelValues(source, result).Inc()
	LoadDuration.Observe(d.Seconds())
	if result == ResultOK {
		RowsAnalyzed.Set(float64(rows))
	}
}

// RecordWarning adds n hits of a data-quality rule.
func RecordWarning(rule string, n int) {
	if n <= 0 {
		return
	}
	DataWarnings.WithLabelValues(rule).Add(float64(n))
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
