package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herdwatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herdwatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "herdwatch",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Detector metrics
	checkRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herdwatch",
			Subsystem: "detector",
			Name:      "check_runs_total",
			Help:      "Total number of detector check runs",
		},
		[]string{"check", "status"},
	)

	checkRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herdwatch",
			Subsystem: "detector",
			Name:      "check_duration_seconds",
			Help:      "Duration of detector check runs in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"check"},
	)

	// Alert lifecycle metrics
	alertOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herdwatch",
			Subsystem: "alert",
			Name:      "outcomes_total",
			Help:      "Alert evaluation outcomes by category",
		},
		[]string{"category", "outcome"},
	)

	openAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "herdwatch",
			Subsystem: "alert",
			Name:      "open_count",
			Help:      "Number of open alerts by severity",
		},
		[]string{"severity"},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herdwatch",
			Subsystem: "notification",
			Name:      "sends_total",
			Help:      "Total number of notification send attempts",
		},
		[]string{"channel", "status"},
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herdwatch",
			Subsystem: "notification",
			Name:      "send_duration_seconds",
			Help:      "Duration of notification sends in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"channel"},
	)

	// Device metrics
	connectedDevices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "herdwatch",
			Subsystem: "device",
			Name:      "connected_count",
			Help:      "Number of devices with a fresh heartbeat",
		},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herdwatch",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCheckRun records a detector check run
func RecordCheckRun(check, status string, duration time.Duration) {
	checkRunsTotal.WithLabelValues(check, status).Inc()
	checkRunDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordAlertOutcome records the outcome of an alert evaluation
func RecordAlertOutcome(category, outcome string) {
	alertOutcomesTotal.WithLabelValues(category, outcome).Inc()
}

// SetOpenAlerts sets the gauge for open alerts by severity
func SetOpenAlerts(severity string, count float64) {
	openAlerts.WithLabelValues(severity).Set(count)
}

// RecordNotification records a notification send attempt
func RecordNotification(channel, status string, duration time.Duration) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// SetConnectedDevices sets the gauge for devices with a fresh heartbeat
func SetConnectedDevices(count float64) {
	connectedDevices.Set(count)
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
