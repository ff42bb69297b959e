// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements the request-scoped plumbing shared by every
// route: request ID generation, access logging, panic recovery, CORS,
// per-request timeouts and daily quota enforcement. The telemetry
// middlewares (Prometheus and OpenTelemetry) live with their collectors
// in pkg/telemetry.
//
// # Middleware Chain
//
// The server assembles the chain outermost first:
//
//	handler = Recovery(Logging(Tracing(Metrics(RequestID(Quota(CORS(Timeout(mux))))))))
//
// Recovery sits outermost so a panic anywhere below still produces a
// well-formed 500. Logging wraps everything that can change the status
// code, and reads the request ID back from the response header since
// the ID middleware runs inside it. Quota runs before CORS so preflight
// OPTIONS requests, which QuotaMiddleware skips, never consume budget.
//
// # Request ID
//
// RequestIDMiddleware keeps a client-supplied X-Request-ID or generates
// a UUID v4. The ID travels in the request context (logging.WithRequestID),
// comes back in the X-Request-ID response header, and is stamped on
// history records by the routing layer.
//
// # Quota
//
// QuotaMiddleware counts one unit per API request against the client
// key (X-User-ID header, else client IP) and rejects with 429 once the
// daily budget is spent. Responses carry X-RateLimit-* headers so
// clients can pace themselves.
//
// # Timeout
//
// TimeoutMiddleware only installs a context deadline; it never writes a
// response of its own. A handler that outlives the deadline sees the
// cancellation through its context and reports it like any other
// failure, which keeps a single writer on the connection even for SSE.
package middleware
