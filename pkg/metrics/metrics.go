package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Business metrics
	RidesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rides_total",
			Help: "Total number of ride transitions applied",
		},
		[]string{"status"},
	)

	RideNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_notifications_total",
			Help: "Ride notifications dispatched over websocket sessions",
		},
		[]string{"event", "delivered"},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
	)

	MatchedDriversHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matched_drivers_per_ride",
			Help:    "Drivers found within the pickup radius per ride request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

// RecordHTTPMetrics updates the request counter and latency histogram.
func RecordHTTPMetrics(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}
