package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"hunterhq/relay/pkg/api"
	"hunterhq/relay/pkg/telemetry/logging"
)

// RequestIDMiddleware tags every request with an ID for log and audit
// correlation. A client-supplied X-Request-ID is kept; otherwise a UUID
// is generated. The ID is stored in the request context and echoed in
// the response header, and the routing layer stamps it on history
// records.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(api.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(api.RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
