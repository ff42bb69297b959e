package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterMetrics tracks routing outcomes across all backends.
//
// Metrics:
//   - relay_router_requests_total: completed operations by name and status
//   - relay_router_request_duration_seconds: whole-operation duration
//   - relay_router_fallbacks_total: requests served by a fallback backend
//   - relay_router_substitutions_total: unregistered names replaced by the
//     first registered backend
type RouterMetrics struct {
	// Completed operations, by operation name and terminal status.
	requests *prometheus.CounterVec

	// Whole-operation duration including failed attempts.
	duration *prometheus.HistogramVec

	// Requests served by a backend other than the first attempted.
	fallbacks *prometheus.CounterVec

	// Unregistered provider names substituted at resolution time.
	substitutions *prometheus.CounterVec
}

// NewRouterMetrics creates and registers router metrics with the provided
// registry.
func NewRouterMetrics(registry *prometheus.Registry) *RouterMetrics {
	rm := &RouterMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "router_requests_total",
				Help:      "Total number of completed router operations",
			},
			[]string{"operation", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "router_request_duration_seconds",
				Help:      "Duration of router operations in seconds, including fallback",
				Buckets:   defaultDurationBuckets,
			},
			[]string{"operation"},
		),

		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "router_fallbacks_total",
				Help:      "Total number of requests served by a fallback backend",
			},
			[]string{"operation"},
		),

		substitutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "router_substitutions_total",
				Help:      "Total number of unregistered provider names substituted",
			},
			[]string{"requested"},
		),
	}

	registry.MustRegister(
		rm.requests,
		rm.duration,
		rm.fallbacks,
		rm.substitutions,
	)

	return rm
}

// RecordRequest counts one completed operation and observes its duration.
// Status is "success" or "error".
func (rm *RouterMetrics) RecordRequest(operation, status string, duration time.Duration) {
	rm.requests.WithLabelValues(operation, status).Inc()
	rm.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback counts one request served by a backend other than the
// first attempted.
func (rm *RouterMetrics) RecordFallback(operation string) {
	rm.fallbacks.WithLabelValues(operation).Inc()
}

// RecordSubstitution counts one unregistered provider name replaced by
// the first registered backend. Callers are expected to bound the label
// through the collector's cardinality limiter.
func (rm *RouterMetrics) RecordSubstitution(requested string) {
	rm.substitutions.WithLabelValues(requested).Inc()
}
