package openai

import (
	"context"
	"testing"

	testhelpers "hunterhq/relay/internal/providers"
	"hunterhq/relay/pkg/providers"
)

func BenchmarkOpenAIProvider_Generate(b *testing.B) {
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
		b.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	req := testhelpers.TestRequest("Hello")
	ctx := context.Background()

	// Reset timer to exclude setup time
	b.ResetTimer()

	// Run benchmark
	for i := 0; i < b.N; i++ {
		_, err := provider.Generate(ctx, req)
		if err != nil {
			b.Fatalf("Generate failed: %v", err)
		}
	}
}

func BenchmarkOpenAIProvider_RequestTransformation(b *testing.B) {
	req := &providers.GenerationRequest{
		Prompt:       "Hello",
		SystemPrompt: "You are a CRM assistant.",
		Temperature:  0.7,
		MaxTokens:    100,
	}

	b.ResetTimer()

	// Benchmark transformation
	for i := 0; i < b.N; i++ {
		_ = transformRequest(req, "gpt-4-turbo-preview")
	}
}

func BenchmarkOpenAIProvider_ResponseExtraction(b *testing.B) {
	openaiResp := &OpenAIResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1234567890,
		Model:   "gpt-4-turbo-preview",
		Choices: []OpenAIChoice{
			{
				Index: 0,
				Message: OpenAIMessage{
					Role:    "assistant",
					Content: "Hello, world!",
				},
				FinishReason: "stop",
			},
		},
		Usage: OpenAIUsage{
			PromptTokens:     10,
			CompletionTokens: 20,
			TotalTokens:      30,
		},
	}

	b.ResetTimer()

	// Benchmark extraction
	for i := 0; i < b.N; i++ {
		_, err := extractText(openaiResp)
		if err != nil {
			b.Fatalf("extractText failed: %v", err)
		}
	}
}
