package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks per-backend traffic and failures.
//
// Metrics:
//   - relay_provider_requests_total: requests served by each backend
//   - relay_provider_errors_total: failed attempts by backend and cause
//   - relay_provider_latency_seconds: serving latency by backend and model
type ProviderMetrics struct {
	// Requests served, by backend and model.
	requests *prometheus.CounterVec

	// Failed attempts, by backend and failure cause.
	errors *prometheus.CounterVec

	// Serving latency histogram.
	latency *prometheus.HistogramVec
}

// NewProviderMetrics creates and registers provider metrics with the
// provided registry.
func NewProviderMetrics(registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of requests served by each backend",
			},
			[]string{"provider", "model"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of failed backend attempts by failure cause",
			},
			[]string{"provider", "cause"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_latency_seconds",
				Help:      "Latency of served backend requests in seconds",
				Buckets:   defaultDurationBuckets,
			},
			[]string{"provider", "model"},
		),
	}

	registry.MustRegister(
		pm.requests,
		pm.errors,
		pm.latency,
	)

	return pm
}

// RecordRequest counts one request served by the given backend.
func (pm *ProviderMetrics) RecordRequest(provider, model string) {
	pm.requests.WithLabelValues(provider, model).Inc()
}

// RecordError counts one failed attempt against the given backend.
// The cause is one of the failure categories: transport_error,
// auth_error, rate_limited, invalid_response, timeout.
func (pm *ProviderMetrics) RecordError(provider, cause string) {
	pm.errors.WithLabelValues(provider, cause).Inc()
}

// RecordLatency observes the latency of a served request.
func (pm *ProviderMetrics) RecordLatency(provider, model string, latencySeconds float64) {
	pm.latency.WithLabelValues(provider, model).Observe(latencySeconds)
}
