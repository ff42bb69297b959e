// Package registry assembles the fixed set of generation providers available
// to the router.
//
// The registry is built exactly once at startup and is immutable afterwards.
// Backends are probed in a fixed order (openai, claude, gemini, groq, ollama)
// so that fallback behavior is deterministic across restarts. Hosted backends
// join the registry only when an API key is configured; ollama joins whenever
// its entry is enabled because the daemon base URL has a local default.
// Individual construction failures are logged and skipped so that partial
// availability never blocks startup.
package registry

import (
	"fmt"
	"log/slog"

	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/providers/claude"
	"hunterhq/relay/pkg/providers/gemini"
	"hunterhq/relay/pkg/providers/groq"
	"hunterhq/relay/pkg/providers/ollama"
	"hunterhq/relay/pkg/providers/openai"
)

// AutoProvider is the default_provider sentinel that selects the first
// registered backend instead of a fixed one.
const AutoProvider = "auto"

// Factory constructs a provider from its resolved configuration.
type Factory func(config providers.Config) (providers.Provider, error)

// Registration pairs a provider name with the configuration and constructor
// used to build it. Registrations are probed in slice order.
type Registration struct {
	Name    string
	Config  providers.Config
	Factory Factory
}

// Registry holds the providers that survived construction, in registration
// order. It is immutable after Build and safe for concurrent use without
// locking.
type Registry struct {
	defaultName string
	ordered     []providers.Provider
	names       []string
	byName      map[string]providers.Provider
}

// Build constructs each registration in order and collects the survivors.
// A factory error disqualifies that backend only; the error is logged and the
// remaining registrations are still probed. An empty result is valid - the
// router reports the condition on first use rather than at startup.
func Build(defaultName string, registrations []Registration) *Registry {
	if defaultName == "" {
		defaultName = AutoProvider
	}

	r := &Registry{
		defaultName: defaultName,
		byName:      make(map[string]providers.Provider, len(registrations)),
	}

	for _, reg := range registrations {
		if reg.Factory == nil {
			slog.Warn("provider registration has no factory, skipping",
				"provider", reg.Name,
			)
			continue
		}

		if _, exists := r.byName[reg.Name]; exists {
			slog.Warn("duplicate provider registration, keeping first",
				"provider", reg.Name,
			)
			continue
		}

		config := reg.Config
		if config.Name == "" {
			config.Name = reg.Name
		}

		provider, err := reg.Factory(config)
		if err != nil {
			slog.Warn("provider initialization failed, skipping",
				"provider", reg.Name,
				"error", err,
			)
			continue
		}

		r.ordered = append(r.ordered, provider)
		r.names = append(r.names, reg.Name)
		r.byName[reg.Name] = provider
	}

	slog.Info("provider registry built",
		"providers", r.names,
		"count", len(r.ordered),
		"default_provider", r.defaultName,
	)

	return r
}

// BackendConfigs carries the resolved per-backend configurations. A nil entry
// means the backend is absent from configuration and is not probed.
type BackendConfigs struct {
	Default string
	OpenAI  *providers.Config
	Claude  *providers.Config
	Gemini  *providers.Config
	Groq    *providers.Config
	Ollama  *providers.Config
}

// BuildDefault assembles the standard lineup in fixed probe order: openai,
// claude, gemini, groq, ollama. The hosted four require an API key; ollama
// only needs its entry present since the adapter defaults to the local
// daemon.
func BuildDefault(backends BackendConfigs) *Registry {
	probe := []struct {
		name        string
		config      *providers.Config
		requiresKey bool
		factory     Factory
	}{
		{providers.NameOpenAI, backends.OpenAI, true, func(cfg providers.Config) (providers.Provider, error) {
			return openai.NewProvider(cfg)
		}},
		{providers.NameClaude, backends.Claude, true, func(cfg providers.Config) (providers.Provider, error) {
			return claude.NewProvider(cfg)
		}},
		{providers.NameGemini, backends.Gemini, true, func(cfg providers.Config) (providers.Provider, error) {
			return gemini.NewProvider(cfg)
		}},
		{providers.NameGroq, backends.Groq, true, func(cfg providers.Config) (providers.Provider, error) {
			return groq.NewProvider(cfg)
		}},
		{providers.NameOllama, backends.Ollama, false, func(cfg providers.Config) (providers.Provider, error) {
			return ollama.NewProvider(cfg)
		}},
	}

	var registrations []Registration
	for _, backend := range probe {
		if backend.config == nil {
			slog.Debug("provider not configured, skipping",
				"provider", backend.name,
			)
			continue
		}

		if backend.requiresKey && backend.config.APIKey == "" {
			slog.Debug("provider has no API key, skipping",
				"provider", backend.name,
			)
			continue
		}

		registrations = append(registrations, Registration{
			Name:    backend.name,
			Config:  *backend.config,
			Factory: backend.factory,
		})
	}

	return Build(backends.Default, registrations)
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (providers.Provider, bool) {
	provider, ok := r.byName[name]
	return provider, ok
}

// First returns the first registered provider, the substitute the router uses
// when the requested name is unregistered or set to the auto sentinel.
func (r *Registry) First() (providers.Provider, bool) {
	if len(r.ordered) == 0 {
		return nil, false
	}
	return r.ordered[0], true
}

// Names returns the registered provider names in registration order.
// The returned slice is a copy and safe to modify.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Providers returns all registered providers in registration order.
// The returned slice is a copy and safe to modify.
func (r *Registry) Providers() []providers.Provider {
	ordered := make([]providers.Provider, len(r.ordered))
	copy(ordered, r.ordered)
	return ordered
}

// Default returns the configured default provider name. It may be the auto
// sentinel or a name that never registered; the router resolves both.
func (r *Registry) Default() string {
	return r.defaultName
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Close closes every registered provider and reports any failures.
func (r *Registry) Close() error {
	var errs []error
	for i, provider := range r.ordered {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", r.names[i], err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %v", errs)
	}

	slog.Debug("provider registry closed", "count", len(r.ordered))
	return nil
}
