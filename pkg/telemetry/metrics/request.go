package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the inbound HTTP surface.
//
// Metrics:
//   - relay_http_requests_total: request count by method, path, status
//   - relay_http_request_duration_seconds: request duration histogram
//   - relay_http_requests_in_flight: currently executing requests
type HTTPMetrics struct {
	// Request count by method, path and status code.
	requests *prometheus.CounterVec

	// Request duration histogram by method and path.
	duration *prometheus.HistogramVec

	// Requests currently being served.
	inFlight prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided
// registry.
func NewHTTPMetrics(registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultDurationBuckets,
			},
			[]string{"method", "path"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	registry.MustRegister(
		hm.requests,
		hm.duration,
		hm.inFlight,
	)

	return hm
}

// RecordRequest counts one completed HTTP request and observes its
// duration.
func (hm *HTTPMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	hm.requests.WithLabelValues(method, path, code).Inc()
	hm.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RequestMiddleware wraps an HTTP handler and records request count,
// duration and in-flight gauge for every request. Request paths pass
// through the collector's cardinality limiter; paths beyond the limit
// are aggregated into "other". When the collector is disabled the
// handler is returned unchanged.
func (c *Collector) RequestMiddleware(next http.Handler) http.Handler {
	if !c.enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.httpMetrics.inFlight.Inc()
		defer c.httpMetrics.inFlight.Dec()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if !c.cardinalityLimiter.Allow(fmt.Sprintf("http:%s:%s", r.Method, path)) {
			path = "other"
		}
		c.httpMetrics.RecordRequest(r.Method, path, recorder.status, time.Since(start))
	})
}

// statusRecorder captures the response status code written by the inner
// handler. Flush is forwarded so streaming responses keep working behind
// the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Flush() {
	if flusher, ok := sr.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
