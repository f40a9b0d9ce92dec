package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Summaries
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinhub_summaries_total",
			Help: "Summaries composed, by variant and recommendation path",
		},
		[]string{"variant", "path"},
	)

	GenerativeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinhub_generative_failures_total",
			Help: "Generative recommendation calls that fell back to the rule engine",
		},
		[]string{"reason"},
	)

	GenerativeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skinhub_generative_request_duration_seconds",
			Help:    "Duration of generative recommendation calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skinhub_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinhub_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinhub_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skinhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinhub_rate_limit_hits_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)
)

func RecordSummary(variant, path string) {
	SummariesTotal.WithLabelValues(variant, path).Inc()
}

// RecordGenerativeCall observes one provider call. An empty reason means success.
func RecordGenerativeCall(duration time.Duration, reason string) {
	GenerativeDuration.Observe(duration.Seconds())
	if reason != "" {
		GenerativeFailures.WithLabelValues(reason).Inc()
	}
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
