package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WSClients is the number of connected real-time clients on this instance.
	WSClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_clients_connected",
			Help: "Number of connected WebSocket clients",
		},
	)

	// EventsPublished counts real-time events published, by event name.
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_published_total",
			Help: "Total number of real-time events published",
		},
		[]string{"event"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, WSClients, EventsPublished)
	})
}

// RecordRequest records one HTTP request. Unmatched routes are grouped under "unmatched".
func RecordRequest(method, path string, status int, durationSeconds float64) {
	if path == "" {
		path = "unmatched"
	}
	s := strconv.Itoa(status)
	RequestDuration.WithLabelValues(method, path, s).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, s).Inc()
}
