// Package telemetry groups the observability subpackages used across
// the relay: structured logging, Prometheus metrics, and OpenTelemetry
// distributed tracing.
//
// # Components
//
//   - logging: slog-based structured logging with secret redaction
//   - metrics: Prometheus collectors for HTTP, routing, providers, and cache
//   - tracing: OpenTelemetry tracer setup and context propagation
//
// # Usage
//
// Each subpackage is wired independently at startup:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	tracer, err := tracing.New(&cfg.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//
// The collector implements routing.Observer, so request outcomes flow
// into the router metrics by registering it with the router. HTTP and
// cache metrics are attached through middleware and the cache's Metrics
// hook respectively.
//
// # Secret Redaction
//
// By default the logging subpackage redacts values that look like
// credentials before they reach any handler:
//
//   - API keys matching known backend shapes (sk-, gsk_, AIza) → ***
//   - Bearer tokens: "Bearer eyJhbG..." → "Bearer ***"
//   - Values under keys like api_key, password, secret, or token keep
//     a four-character prefix so operators can tell keys apart
//
// See the logging package for the full pattern set.
package telemetry
