package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"hunterhq/relay/pkg/providers"
)

// Provider is the Gemini provider adapter.
// It implements the providers.Provider interface for Google's Generative
// Language API (generateContent).
type Provider struct {
	*providers.HTTPClient
}

const (
	// DefaultBaseURL is the Generative Language API endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-1.5-flash"
)

// NewProvider creates a new Gemini provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.NameGemini
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Gemini",
		}
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	// Set defaults if not provided
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	p := &Provider{
		HTTPClient: providers.NewHTTPClient(config),
	}

	slog.Info("Gemini provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a generateContent request to Gemini and returns the
// generated text.
func (p *Provider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	if err := providers.ValidateRequest(req); err != nil {
		return "", err
	}

	// Transform to Gemini format
	geminiReq := transformRequest(req)

	// Gemini authenticates via a key query parameter, not a header
	requestURL := fmt.Sprintf("%s/%s:generateContent?key=%s",
		p.Config().BaseURL, p.Model(), url.QueryEscape(p.Config().APIKey))
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	// Send request
	var geminiResp GeminiResponse
	if err := p.DoJSONRequest(ctx, "POST", requestURL, geminiReq, &geminiResp, headers); err != nil {
		return "", err
	}

	// Extract text from the first candidate
	text, err := extractText(&geminiResp)
	if err != nil {
		return "", &providers.ParseError{
			Provider: p.Name(),
			Cause:    err,
		}
	}

	slog.Debug("generation succeeded",
		"provider", p.Name(),
		"model", p.Model(),
		"tokens", geminiResp.UsageMetadata.TotalTokenCount,
	)

	return text, nil
}
