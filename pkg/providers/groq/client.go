package groq

import (
	"context"
	"log/slog"

	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/providers/openai"
)

// Provider is the Groq provider adapter.
// Groq exposes an OpenAI-compatible chat completions API, so this adapter
// reuses the OpenAI wire implementation with Groq's endpoint and models.
//
// Only the generate path is exposed; the router treats groq as non-streaming.
type Provider struct {
	inner *openai.Provider
}

const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is used when no model is configured
	DefaultModel = "llama-3.1-70b-versatile"
)

// NewProvider creates a new Groq provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.NameGroq
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Groq",
		}
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	// Create OpenAI provider with Groq's config
	openaiProvider, err := openai.NewProvider(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		inner: openaiProvider,
	}

	slog.Info("Groq provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a chat completion request to Groq.
// This delegates to the OpenAI adapter since the wire format is the same.
func (p *Provider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	return p.inner.Generate(ctx, req)
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.inner.Name()
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.inner.Model()
}

// Close releases the underlying transport.
func (p *Provider) Close() error {
	return p.inner.Close()
}
