package ollama

import (
	"context"
	"testing"
	"time"

	testhelpers "hunterhq/relay/internal/providers"
	"hunterhq/relay/pkg/providers"
)

func TestOllamaProvider_Generate(t *testing.T) {
	// Create mock server
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Configure mock response
	mock.SetResponse("/api/generate", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOllamaResponse("Hello from Ollama!", "llama3:8b"),
	})

	// Create provider
	config := testhelpers.TestConfigWithURL("ollama", mock.URL())
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
	if text != "Hello from Ollama!" {
		t.Errorf("expected text %q, got %q", "Hello from Ollama!", text)
	}

	if mock.GetRequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.GetRequestCount())
	}
}

func TestOllamaProvider_NoAPIKeyRequired(t *testing.T) {
	config := testhelpers.TestConfig("ollama")
	config.APIKey = ""

	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("construction must succeed without an API key: %v", err)
	}
	defer provider.Close()

	if provider.Name() != "ollama" {
		t.Errorf("expected name ollama, got %s", provider.Name())
	}
}

func TestOllamaProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(providers.Config{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	if provider.Name() != providers.NameOllama {
		t.Errorf("expected default name %s, got %s", providers.NameOllama, provider.Name())
	}

	if provider.Model() != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, provider.Model())
	}

	if provider.Config().BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL %s, got %s", DefaultBaseURL, provider.Config().BaseURL)
	}

	if provider.Config().Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %s, got %s", DefaultTimeout, provider.Config().Timeout)
	}
}

func TestOllamaProvider_Timeout(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	// Respond slower than the configured timeout
	mock.SetResponse("/api/generate", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOllamaResponse("too late", "llama3:8b"),
		Delay:      200 * time.Millisecond,
	})

	config := testhelpers.TestConfigWithURL("ollama", mock.URL())
	config.Timeout = 50 * time.Millisecond
	config.MaxRetries = 1
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.Generate(context.Background(), testhelpers.TestRequest("Hello"))
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	if providers.CauseOf(err) != providers.CauseTimeout {
		t.Errorf("expected cause %q, got %q (%v)", providers.CauseTimeout, providers.CauseOf(err), err)
	}
}

func TestOllamaProvider_ConnectionRefused(t *testing.T) {
	// No server listening on this port
	config := testhelpers.TestConfigWithURL("ollama", "http://127.0.0.1:1")
	config.MaxRetries = 1
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.Generate(context.Background(), testhelpers.TestRequest("Hello"))
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}

	if providers.CauseOf(err) != providers.CauseTransport {
		t.Errorf("expected cause %q, got %q (%v)", providers.CauseTransport, providers.CauseOf(err), err)
	}
}

func TestTransformRequest_BareRequest(t *testing.T) {
	req := &providers.GenerationRequest{Prompt: "Hello"}

	ollamaReq := transformRequest(req, "llama3:8b")

	if ollamaReq.Model != "llama3:8b" {
		t.Errorf("expected model llama3:8b, got %s", ollamaReq.Model)
	}

	if ollamaReq.Prompt != "Hello" {
		t.Errorf("expected prompt %q, got %q", "Hello", ollamaReq.Prompt)
	}

	if ollamaReq.Stream {
		t.Error("stream must be false")
	}

	// Bare requests carry no options; the daemon's model defaults apply
	if ollamaReq.Options != nil {
		t.Errorf("expected nil options, got %+v", ollamaReq.Options)
	}
}

func TestTransformRequest_WithOptions(t *testing.T) {
	req := &providers.GenerationRequest{
		Prompt:      "Hello",
		Temperature: 0.3,
		MaxTokens:   64,
	}

	ollamaReq := transformRequest(req, "llama3:8b")

	if ollamaReq.Options == nil {
		t.Fatal("expected options to be set")
	}

	if ollamaReq.Options.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", ollamaReq.Options.Temperature)
	}

	if ollamaReq.Options.NumPredict != 64 {
		t.Errorf("expected num_predict 64, got %d", ollamaReq.Options.NumPredict)
	}
}
