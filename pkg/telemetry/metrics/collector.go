package metrics

import (
	"fmt"
	"sync"

	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/routing"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric exposed by the collector.
const namespace = "relay"

// defaultDurationBuckets cover the latency range of the configured
// backends, from sub-100ms cache-warm responses up to the 120s Ollama
// timeout.
var defaultDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// Collector is the orchestrator for all Prometheus metrics in the relay
// gateway. It owns a private registry, registers the metric groups on
// construction, and exposes recording methods for each component.
//
// Collector implements routing.Observer: wiring it into the router feeds
// the provider and router metric groups from completed operations.
type Collector struct {
	config   *config.MetricsConfig
	enabled  bool
	registry *prometheus.Registry

	providerMetrics *ProviderMetrics
	routerMetrics   *RouterMetrics
	httpMetrics     *HTTPMetrics
	cacheMetrics    *CacheMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector registered against the given
// registry. If registry is nil a fresh private registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	enabled := true
	if cfg != nil {
		enabled = cfg.IsEnabled()
	}

	c := &Collector{
		config:             cfg,
		enabled:            enabled,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.providerMetrics = NewProviderMetrics(registry)
	c.routerMetrics = NewRouterMetrics(registry)
	c.httpMetrics = NewHTTPMetrics(registry)
	c.cacheMetrics = NewCacheMetrics(registry)

	return c
}

// ObserveGenerate implements routing.Observer. One report updates:
//
//   - the router operation counter and duration histogram
//   - the serving backend's request counter and latency histogram
//   - one provider error per failed attempt, labelled by failure cause
//   - the fallback counter, when a later backend served the request
//   - the substitution counter, when an unregistered name was replaced
//
// The observed duration covers the whole operation including failed
// attempts that preceded the serving backend.
func (c *Collector) ObserveGenerate(report routing.Report) {
	if !c.enabled {
		return
	}

	status := "success"
	if report.Err != nil {
		status = "error"
	}
	c.routerMetrics.RecordRequest(report.Operation, status, report.Duration)

	for _, attempt := range report.Attempts {
		c.providerMetrics.RecordError(attempt.Provider, string(attempt.Cause))
	}

	if report.Err == nil && report.ActualProvider != "" {
		c.providerMetrics.RecordRequest(report.ActualProvider, report.Model)
		c.providerMetrics.RecordLatency(report.ActualProvider, report.Model, report.Duration.Seconds())
		if len(report.Attempts) > 0 {
			c.routerMetrics.RecordFallback(report.Operation)
		}
	}

	if report.Substituted {
		requested := report.RequestedProvider
		if !c.cardinalityLimiter.Allow(fmt.Sprintf("substitution:%s", requested)) {
			requested = "other"
		}
		c.routerMetrics.RecordSubstitution(requested)
	}
}

// RecordCacheHit records a hit on the named cache.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.enabled {
		return
	}
	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a miss on the named cache.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.enabled {
		return
	}
	c.cacheMetrics.RecordMiss(cacheName)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations admitted per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality
// distinct label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether the label set may be used. Known label sets are
// always allowed; new ones are admitted until the limit is reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
