// Package metrics provides Prometheus metrics collection for the relay
// gateway.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring AI
// request routing, backend health, the HTTP surface, and the analysis
// result cache. All metrics live in the "relay" namespace on a private
// registry so that tests and embedding applications never collide with
// the default registry.
//
// # Metrics Categories
//
//   - Provider Metrics: requests served, errors by failure cause, latency
//   - Router Metrics: operations by status, fallbacks, substitutions
//   - HTTP Metrics: request count, duration, in-flight gauge
//   - Cache Metrics: analysis cache hits and misses
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//
//	// Feed router outcomes (Collector implements routing.Observer).
//	router := routing.NewRouter(reg, collector)
//
//	// Wrap the HTTP surface.
//	handler = collector.RequestMiddleware(handler)
//
//	// Expose the scrape endpoint.
//	mux.Handle("/metrics", collector.Handler())
//
// # Cardinality Management
//
// Label values that originate outside the process (request paths,
// requested provider names) pass through a cardinality limiter and are
// aggregated into "other" once the limit is reached, so a client cannot
// grow the label space without bound.
package metrics
