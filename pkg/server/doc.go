// Package server provides the HTTP server for the AI service.
//
// This package ties together the handlers and middleware and manages the
// server lifecycle: start, graceful shutdown, and route configuration.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "hunterhq/relay/pkg/api/handlers"
//	    "hunterhq/relay/pkg/config"
//	    "hunterhq/relay/pkg/server"
//	)
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ai := handlers.NewAIHandler(router, analyzer, reg)
//
//	srv := server.New(&cfg.Server, ai, server.Options{})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until the context is cancelled, Shutdown is called from
// another goroutine, or the listener fails. Signal handling is the
// caller's responsibility (typically signal.NotifyContext in main).
//
// # Graceful Shutdown
//
// Shutdown stops accepting new connections, waits for active requests to
// complete up to the configured shutdown timeout, then forces connection
// closure. It is idempotent.
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - POST /api/ai/generate - Text generation (streaming and non-streaming)
//   - POST /api/ai/sentiment - Sentiment analysis
//   - POST /api/ai/intent - Intent extraction
//   - POST /api/ai/generate-response - Customer response drafting
//   - POST /api/ai/summarize-conversation - Conversation summarization
//   - GET /api/ai/providers - Configured provider information
//   - GET /api/ai/health - Service health with a default-provider probe
//   - GET /healthz - Liveness probe (always returns 200)
//   - GET /metrics - Prometheus metrics (when a collector is configured)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Timeout: applies the request deadline when configured
//  2. CORS: adds Cross-Origin Resource Sharing headers
//  3. Quota: enforces the per-client daily request quota
//  4. RequestID: assigns the request ID and echoes it in the response
//  5. Metrics: records request counts, durations, and in-flight gauge
//  6. Tracing: joins the caller's trace via W3C traceparent
//  7. Logging: writes one access log line per request
//  8. Recovery: recovers from panics and returns a 500 error
//
// The metrics middleware and endpoint are present only when
// Options.Collector is set; quota enforcement only when Options.Tracker
// is set.
//
// # Thread Safety
//
// All server operations are safe for concurrent use.
package server
