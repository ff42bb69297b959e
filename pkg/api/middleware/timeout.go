package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware applies a context deadline to each request. Handlers
// observe the cancellation through the request context and map it to an
// error response themselves; the middleware never writes on their
// behalf, so an expiring deadline cannot race a handler mid-response.
//
// The deadline covers streaming responses too. Deployments that serve
// long generations over SSE should leave the timeout at zero, which
// disables the middleware; the per-provider timeouts still bound each
// backend attempt.
//
// Example usage:
//
//	handler = TimeoutMiddleware(60 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
