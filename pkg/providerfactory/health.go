package providerfactory

import (
	"context"

	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/registry"
)

// HealthPrompt is the canned prompt sent through the default route to
// verify a backend can serve a trivial completion.
const HealthPrompt = "Say 'OK' if you can read this."

// healthMaxTokens keeps the probe response tiny.
const healthMaxTokens = 10

// Service status values reported by CheckHealth.
const (
	StatusHealthy     = "healthy"
	StatusDegraded    = "degraded"
	StatusNoProviders = "no_providers"
)

// Generator is the minimal generation surface the health probe needs.
// *routing.Router satisfies it.
type Generator interface {
	Generate(ctx context.Context, req *providers.GenerationRequest) (*providers.GenerationResult, error)
}

// ProviderInfo describes the registered backends.
type ProviderInfo struct {
	AvailableProviders []string `json:"available_providers"`
	DefaultProvider    string   `json:"default_provider"`
	TotalProviders     int      `json:"total_providers"`
}

// Describe reports the registered backend names, the configured default
// (which may be "auto" or a name that never registered), and the count.
func Describe(reg *registry.Registry) ProviderInfo {
	return ProviderInfo{
		AvailableProviders: reg.Names(),
		DefaultProvider:    reg.Default(),
		TotalProviders:     reg.Len(),
	}
}

// HealthStatus reports AI service health.
type HealthStatus struct {
	Status                string   `json:"status"`
	AvailableProviders    []string `json:"available_providers"`
	DefaultProvider       string   `json:"default_provider"`
	DefaultProviderStatus string   `json:"default_provider_status,omitempty"`
	TotalProviders        int      `json:"total_providers"`
}

// CheckHealth probes the default route with a trivial completion and
// reports the outcome. With no registered backends the status is
// "no_providers" and no probe is attempted; a failed probe degrades the
// default provider status without making the service unhealthy, since
// fallback may still serve other routes.
func CheckHealth(ctx context.Context, reg *registry.Registry, gen Generator) HealthStatus {
	status := HealthStatus{
		Status:             StatusHealthy,
		AvailableProviders: reg.Names(),
		DefaultProvider:    reg.Default(),
		TotalProviders:     reg.Len(),
	}

	if reg.Len() == 0 {
		status.Status = StatusNoProviders
		return status
	}

	_, err := gen.Generate(ctx, &providers.GenerationRequest{
		Prompt:    HealthPrompt,
		MaxTokens: healthMaxTokens,
	})
	if err != nil {
		status.DefaultProviderStatus = StatusDegraded
	} else {
		status.DefaultProviderStatus = StatusHealthy
	}

	return status
}
