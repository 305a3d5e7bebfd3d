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
			Namespace: "alertprobe",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alertprobe",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "alertprobe",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Lifecycle metrics
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertprobe",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Total number of alert status transitions issued or applied",
		},
		[]string{"from", "to", "result"},
	)

	pollAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertprobe",
			Subsystem: "lifecycle",
			Name:      "poll_attempts_total",
			Help:      "Total number of observations made while waiting",
		},
		[]string{"target"},
	)

	waitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alertprobe",
			Subsystem: "lifecycle",
			Name:      "wait_duration_seconds",
			Help:      "Duration of waits for asynchronous state changes",
			Buckets:   []float64{1, 3, 5, 10, 30, 60, 120, 300},
		},
		[]string{"target", "result"},
	)

	// Scenario metrics
	scenarioRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertprobe",
			Subsystem: "scenario",
			Name:      "runs_total",
			Help:      "Total number of scenario runs by outcome",
		},
		[]string{"flow", "outcome"},
	)

	scenarioDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alertprobe",
			Subsystem: "scenario",
			Name:      "duration_seconds",
			Help:      "Duration of scenario runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"flow"},
	)

	// Mock backend metrics
	alertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertprobe",
			Subsystem: "backend",
			Name:      "alerts_created_total",
			Help:      "Total number of alerts raised by simulated scans",
		},
		[]string{"severity"},
	)

	alertsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "alertprobe",
			Subsystem: "backend",
			Name:      "alerts_count",
			Help:      "Number of stored alerts by status",
		},
		[]string{"status"},
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

// RecordTransition records an issued or backend-applied status change
func RecordTransition(from, to, result string) {
	transitionsTotal.WithLabelValues(from, to, result).Inc()
}

// RecordPollAttempt records one observation made by a wait
func RecordPollAttempt(target string) {
	pollAttemptsTotal.WithLabelValues(target).Inc()
}

// RecordWait records how long a wait took and how it ended
func RecordWait(target, result string, duration time.Duration) {
	waitDuration.WithLabelValues(target, result).Observe(duration.Seconds())
}

// RecordScenario records the outcome and duration of a scenario run
func RecordScenario(flow, outcome string, duration time.Duration) {
	scenarioRunsTotal.WithLabelValues(flow, outcome).Inc()
	scenarioDuration.WithLabelValues(flow).Observe(duration.Seconds())
}

// RecordAlertCreated records an alert raised by a simulated scan
func RecordAlertCreated(severity string) {
	alertsCreatedTotal.WithLabelValues(severity).Inc()
}

// SetAlertCount sets the gauge for stored alerts in a status
func SetAlertCount(status string, count float64) {
	alertsByStatus.WithLabelValues(status).Set(count)
}
