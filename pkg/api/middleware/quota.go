package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hunterhq/relay/pkg/api"
	"hunterhq/relay/pkg/quota"
	"hunterhq/relay/pkg/telemetry/logging"
)

// ClientKey identifies the consumer a request counts against: the
// X-User-ID header when present, otherwise the client IP.
func ClientKey(r *http.Request) string {
	if userID := r.Header.Get(api.UserIDHeader); userID != "" {
		return userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// QuotaMiddleware enforces the per-client daily request quota on the
// API routes. Preflight OPTIONS and non-API paths (liveness, metrics)
// are not counted. A nil tracker disables enforcement.
//
// Counted responses carry X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset headers. A denied request gets 429 with Retry-After
// pointing at the next UTC midnight.
//
// Tracker errors fail open: an unreachable quota store degrades
// accounting rather than taking the API down.
//
// Example usage:
//
//	handler = QuotaMiddleware(tracker)(handler)
func QuotaMiddleware(tracker *quota.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tracker == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			decision, err := tracker.Allow(ctx, ClientKey(r))
			if err != nil {
				slog.ErrorContext(ctx, "quota check failed, allowing request",
					"request_id", logging.GetRequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			if decision.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
			}

			if !decision.Allowed {
				retryAfter := int(time.Until(decision.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				errResp := api.NewRateLimitError(fmt.Sprintf(
					"Daily request quota of %d exceeded. Quota resets at %s.",
					decision.Limit,
					decision.ResetAt.UTC().Format(time.RFC3339),
				))
				if writeErr := api.WriteError(w, errResp); writeErr != nil {
					slog.ErrorContext(ctx, "failed to write quota error response", "error", writeErr)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
