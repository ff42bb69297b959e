package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hunterhq/relay/pkg/providers"
)

// Provider is the Ollama provider adapter.
// It implements the providers.Provider interface for a local Ollama daemon
// using its native generate API. No API key is required.
type Provider struct {
	*providers.HTTPClient
}

const (
	// DefaultBaseURL is the local Ollama daemon endpoint
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when no model is configured
	DefaultModel = "llama3:8b"

	// DefaultTimeout allows for slow local inference; remote-API timeouts
	// are far too tight for CPU-bound models.
	DefaultTimeout = 120 * time.Second
)

// NewProvider creates a new Ollama provider instance.
// Unlike the hosted backends, construction never requires credentials.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.NameOllama
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	// Local daemon; a single retry is enough
	if config.MaxRetries == 0 {
		config.MaxRetries = 1
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 5
	}

	p := &Provider{
		HTTPClient: providers.NewHTTPClient(config),
	}

	slog.Info("Ollama provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
		"timeout", config.Timeout,
	)

	return p, nil
}

// Generate sends a generate request to the Ollama daemon and returns the
// generated text.
func (p *Provider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	if err := providers.ValidateRequest(req); err != nil {
		return "", err
	}

	// Transform to Ollama format
	ollamaReq := transformRequest(req, p.Model())

	// Prepare request
	url := fmt.Sprintf("%s/api/generate", p.Config().BaseURL)
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	// Send request
	var ollamaResp OllamaResponse
	if err := p.DoJSONRequest(ctx, "POST", url, ollamaReq, &ollamaResp, headers); err != nil {
		return "", err
	}

	slog.Debug("generation succeeded",
		"provider", p.Name(),
		"model", ollamaResp.Model,
	)

	return ollamaResp.Response, nil
}
