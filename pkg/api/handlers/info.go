package handlers

import (
	"log/slog"
	"net/http"

	"hunterhq/relay/pkg/providerfactory"
	"hunterhq/relay/pkg/telemetry/logging"
)

// Providers handles GET /api/ai/providers.
func (h *AIHandler) Providers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, providerfactory.Describe(h.registry))
}

// Health handles GET /api/ai/health. The probe sends a tiny completion
// through the default route; a failing probe degrades the report but the
// endpoint itself always answers 200.
func (h *AIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	status := providerfactory.CheckHealth(ctx, h.registry, h.router)
	if status.Status != providerfactory.StatusHealthy {
		slog.WarnContext(ctx, "AI service health check not healthy",
			"request_id", logging.GetRequestID(ctx),
			"status", status.Status,
			"default_provider_status", status.DefaultProviderStatus,
		)
	}

	writeJSON(ctx, w, http.StatusOK, status)
}

// Healthz answers the process liveness probe. It reports nothing about
// provider reachability; use /api/ai/health for that.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
