package openai

import (
	"context"
	"testing"
	"time"

	testhelpers "hunterhq/relay/internal/providers"
	"hunterhq/relay/pkg/providers"
)

func TestOpenAIProvider_Generate(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Configure mock response
	mock.SetResponse("/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOpenAIResponse("Hello, world!", "gpt-4-turbo-preview"),
	})

	// Create provider
	config := testhelpers.TestConfigWithURL("openai", mock.URL())
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	// Send request
	ctx := context.Background()
	text, err := provider.Generate(ctx, testhelpers.TestRequest("Hello"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Verify response
	if text != "Hello, world!" {
		t.Errorf("expected text %q, got %q", "Hello, world!", text)
	}

	// Verify request was sent
	if mock.GetRequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.GetRequestCount())
	}
}

func TestOpenAIProvider_AuthError(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Configure auth error response
	mock.SetResponse("/chat/completions", testhelpers.MockAuthError())

	// Create provider
	config := testhelpers.TestConfigWithURL("openai", mock.URL())
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	// Send request (should fail with auth error)
	ctx := context.Background()
	_, err = provider.Generate(ctx, testhelpers.TestRequest("Hello"))
	if err == nil {
		t.Fatal("expected auth error, got nil")
	}

	// Verify error type
	authErr, ok := err.(*providers.AuthError)
	if !ok {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}

	if authErr.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", authErr.Provider)
	}

	if providers.CauseOf(err) != providers.CauseAuth {
		t.Errorf("expected cause %q, got %q", providers.CauseAuth, providers.CauseOf(err))
	}

	// Auth errors must not be retried
	if mock.GetRequestCount() != 1 {
		t.Errorf("expected 1 request (no retries), got %d", mock.GetRequestCount())
	}
}

func TestOpenAIProvider_RateLimitError(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Configure rate limit error response
	mock.SetResponse("/chat/completions", testhelpers.MockRateLimitError(60))

	// Create provider
	config := testhelpers.TestConfigWithURL("openai", mock.URL())
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	// Send request (should fail with rate limit error)
	ctx := context.Background()
	_, err = provider.Generate(ctx, testhelpers.TestRequest("Hello"))
	if err == nil {
		t.Fatal("expected rate limit error, got nil")
	}

	// Verify error type
	rateLimitErr, ok := err.(*providers.RateLimitError)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}

	if rateLimitErr.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", rateLimitErr.Provider)
	}

	if rateLimitErr.RetryAfter != 60*time.Second {
		t.Errorf("expected retry after 60s, got %s", rateLimitErr.RetryAfter)
	}
}

func TestOpenAIProvider_ParseError(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "invalid JSON",
			body: "not json at all",
		},
		{
			name: "empty choices",
			body: map[string]interface{}{
				"id":      "chatcmpl-123",
				"model":   "gpt-4-turbo-preview",
				"choices": []interface{}{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.SetResponse("/chat/completions", testhelpers.MockResponse{
				StatusCode: 200,
				Body:       tt.body,
			})

			config := testhelpers.TestConfigWithURL("openai", mock.URL())
			provider, err := NewProvider(config)
			if err != nil {
				t.Fatalf("failed to create provider: %v", err)
			}
			defer provider.Close()

			_, err = provider.Generate(context.Background(), testhelpers.TestRequest("Hello"))
			if err == nil {
				t.Fatal("expected parse error, got nil")
			}

			if _, ok := err.(*providers.ParseError); !ok {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}

			if providers.CauseOf(err) != providers.CauseInvalidResponse {
				t.Errorf("expected cause %q, got %q", providers.CauseInvalidResponse, providers.CauseOf(err))
			}
		})
	}
}

func TestOpenAIProvider_ValidationError(t *testing.T) {
	config := testhelpers.TestConfig("openai")
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	tests := []struct {
		name    string
		req     *providers.GenerationRequest
		wantErr string
	}{
		{
			name:    "nil request",
			req:     nil,
			wantErr: "request cannot be nil",
		},
		{
			name:    "empty prompt",
			req:     &providers.GenerationRequest{},
			wantErr: "prompt is required",
		},
		{
			name:    "negative max tokens",
			req:     &providers.GenerationRequest{Prompt: "Hello", MaxTokens: -1},
			wantErr: "max_tokens must be positive",
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Generate(ctx, tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			validationErr, ok := err.(*providers.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}

			if !containsString(validationErr.Message, tt.wantErr) {
				t.Errorf("expected error message to contain %q, got %q", tt.wantErr, validationErr.Message)
			}
		})
	}
}

func TestOpenAIProvider_Retry(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Configure persistent server errors
	mock.SetResponse("/chat/completions", testhelpers.MockServerError())

	// Create provider with retries
	config := testhelpers.TestConfigWithURL("openai", mock.URL())
	config.MaxRetries = 2
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	// Send request (should retry and eventually fail)
	ctx := context.Background()
	_, err = provider.Generate(ctx, testhelpers.TestRequest("Hello"))
	if err == nil {
		t.Fatal("expected error after retries, got nil")
	}

	// Verify multiple requests were made (initial + retries)
	if mock.GetRequestCount() <= 1 {
		t.Errorf("expected multiple requests (retries), got %d", mock.GetRequestCount())
	}

	// Verify it's a provider error
	if _, ok := err.(*providers.ProviderError); !ok {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
}

func TestOpenAIProvider_MissingAPIKey(t *testing.T) {
	config := testhelpers.TestConfig("openai")
	config.APIKey = ""

	_, err := NewProvider(config)
	if err == nil {
		t.Fatal("expected config error, got nil")
	}

	if _, ok := err.(*providers.ConfigError); !ok {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestTransformRequest_Defaults(t *testing.T) {
	req := &providers.GenerationRequest{Prompt: "Hello"}

	openaiReq := transformRequest(req, "gpt-4-turbo-preview")

	if openaiReq.Model != "gpt-4-turbo-preview" {
		t.Errorf("expected model gpt-4-turbo-preview, got %s", openaiReq.Model)
	}

	if len(openaiReq.Messages) != 2 {
		t.Fatalf("expected 2 messages (system + user), got %d", len(openaiReq.Messages))
	}

	if openaiReq.Messages[0].Role != "system" || openaiReq.Messages[0].Content != providers.DefaultSystemPrompt {
		t.Errorf("expected default system message, got %+v", openaiReq.Messages[0])
	}

	if openaiReq.Messages[1].Role != "user" || openaiReq.Messages[1].Content != "Hello" {
		t.Errorf("expected user message with prompt, got %+v", openaiReq.Messages[1])
	}

	if openaiReq.Temperature != providers.DefaultTemperature {
		t.Errorf("expected default temperature %v, got %v", providers.DefaultTemperature, openaiReq.Temperature)
	}

	if openaiReq.MaxTokens != providers.DefaultMaxTokens {
		t.Errorf("expected default max tokens %d, got %d", providers.DefaultMaxTokens, openaiReq.MaxTokens)
	}
}

func TestTransformRequest_ExplicitFields(t *testing.T) {
	req := &providers.GenerationRequest{
		Prompt:       "Hello",
		SystemPrompt: "You are a CRM assistant.",
		Temperature:  0.2,
		MaxTokens:    50,
	}

	openaiReq := transformRequest(req, "gpt-4-turbo-preview")

	if openaiReq.Messages[0].Content != "You are a CRM assistant." {
		t.Errorf("expected custom system prompt, got %q", openaiReq.Messages[0].Content)
	}

	if openaiReq.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", openaiReq.Temperature)
	}

	if openaiReq.MaxTokens != 50 {
		t.Errorf("expected max tokens 50, got %d", openaiReq.MaxTokens)
	}
}

// Helper function to check if a string contains a substring
func containsString(s, substr string) bool {
	return len(s) >= len(substr) && findSubstring(s, substr)
}

func findSubstring(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
