package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"hunterhq/relay/pkg/api"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a
// 500 response in the standard error envelope. The panic value and stack
// trace are logged; the client sees only the generic message.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"request_id", w.Header().Get(api.RequestIDHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				errResp := api.NewServerError(
					"An internal error occurred. Please try again later.",
				)

				// Fails when the handler already wrote a header; the
				// stack is logged either way.
				_ = api.WriteError(w, errResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
