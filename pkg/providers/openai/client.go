package openai

import (
	"context"
	"fmt"
	"log/slog"

	"hunterhq/relay/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's Chat
// Completions API, and providers.StreamingProvider for incremental output.
type Provider struct {
	*providers.HTTPClient
}

const (
	// DefaultBaseURL is the OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4-turbo-preview"
)

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		config.Name = providers.NameOpenAI
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
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

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// Generate sends a chat completion request to OpenAI and returns the
// generated text.
func (p *Provider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	if err := providers.ValidateRequest(req); err != nil {
		return "", err
	}

	// Transform to OpenAI format
	openaiReq := transformRequest(req, p.Model())

	// Prepare request
	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}

	// Send request
	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, "POST", url, openaiReq, &openaiResp, headers); err != nil {
		return "", err
	}

	// Extract text from the response
	text, err := extractText(&openaiResp)
	if err != nil {
		return "", &providers.ParseError{
			Provider: p.Name(),
			Cause:    err,
		}
	}

	slog.Debug("generation succeeded",
		"provider", p.Name(),
		"model", openaiResp.Model,
		"tokens", openaiResp.Usage.TotalTokens,
	)

	return text, nil
}

// StreamGenerate sends a streaming chat completion request to OpenAI.
// Chunks are delivered on the returned channel until the stream ends or an
// error chunk terminates it.
func (p *Provider) StreamGenerate(ctx context.Context, req *providers.GenerationRequest) (<-chan providers.Chunk, error) {
	if err := providers.ValidateRequest(req); err != nil {
		return nil, err
	}

	// Transform to OpenAI format with streaming enabled
	openaiReq := transformRequest(req, p.Model())
	openaiReq.Stream = true

	// Prepare request
	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
		"Accept":        "text/event-stream",
	}

	// Create stream reader
	stream, err := newStreamReader(ctx, p.HTTPClient, url, openaiReq, headers)
	if err != nil {
		return nil, err
	}

	// Create output channel
	chunks := make(chan providers.Chunk, 100) // Buffered channel

	// Start goroutine to read stream and send chunks
	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			text, err := stream.Read(ctx)
			if err != nil {
				if err == errStreamDone {
					// Stream ended normally
					return
				}
				// Send error chunk and exit
				chunks <- providers.Chunk{Err: err}
				return
			}

			if text == "" {
				// Role-only or keep-alive chunk, nothing to emit
				continue
			}

			// Send chunk
			select {
			case chunks <- providers.Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}
