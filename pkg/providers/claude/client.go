package claude

import (
	"context"
	"fmt"
	"log/slog"

	"hunterhq/relay/pkg/providers"
)

// Provider is the Claude provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPClient
}

const (
	// DefaultBaseURL is the Anthropic API endpoint
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is used when no model is configured
	DefaultModel = "claude-3-5-sonnet-20240620"

	// DefaultMaxTokens is the max_tokens sent when the request leaves it zero.
	// Anthropic requires the field, so the adapter always sends a value.
	DefaultMaxTokens = 1024

	// AnthropicVersion is the API version to use
	AnthropicVersion = "2023-06-01"
)

// NewProvider creates a new Claude provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.NameClaude
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Claude",
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

	slog.Info("Claude provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a messages request to Claude and returns the generated text.
func (p *Provider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	if err := providers.ValidateRequest(req); err != nil {
		return "", err
	}

	// Transform to Anthropic format
	claudeReq := transformRequest(req, p.Model())

	// Prepare request
	url := fmt.Sprintf("%s/v1/messages", p.Config().BaseURL)
	headers := map[string]string{
		"x-api-key":         p.Config().APIKey,
		"anthropic-version": AnthropicVersion,
		"Content-Type":      "application/json",
	}

	// Send request
	var claudeResp ClaudeResponse
	if err := p.DoJSONRequest(ctx, "POST", url, claudeReq, &claudeResp, headers); err != nil {
		return "", err
	}

	// Extract text from the content blocks
	text, err := extractText(&claudeResp)
	if err != nil {
		return "", &providers.ParseError{
			Provider: p.Name(),
			Cause:    err,
		}
	}

	slog.Debug("generation succeeded",
		"provider", p.Name(),
		"model", claudeResp.Model,
		"tokens", claudeResp.Usage.InputTokens+claudeResp.Usage.OutputTokens,
	)

	return text, nil
}
