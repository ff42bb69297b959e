package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks analysis result cache performance.
//
// Metrics:
//   - relay_cache_hits_total: cache hits by cache name
//   - relay_cache_misses_total: cache misses by cache name
type CacheMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided
// registry.
func NewCacheMetrics(registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		cm.hits,
		cm.misses,
	)

	return cm
}

// RecordHit counts one hit on the named cache.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hits.WithLabelValues(cacheName).Inc()
}

// RecordMiss counts one miss on the named cache.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.misses.WithLabelValues(cacheName).Inc()
}
