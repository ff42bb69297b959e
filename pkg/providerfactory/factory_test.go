package providerfactory

import (
	"testing"
	"time"

	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/providers"
)

func testConfig() *config.Config {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	return &cfg
}

func TestBackendConfigs_Mapping(t *testing.T) {
	cfg := testConfig()
	cfg.Router.DefaultProvider = "claude"
	cfg.Providers.OpenAI.APIKey = "sk-test"
	cfg.Providers.OpenAI.Model = "gpt-4o"
	cfg.Providers.OpenAI.BaseURL = "https://proxy.internal/v1"
	cfg.Providers.OpenAI.Timeout = 45 * time.Second
	cfg.Providers.OpenAI.MaxRetries = 5

	backends := BackendConfigs(cfg)

	if backends.Default != "claude" {
		t.Errorf("expected default claude, got %q", backends.Default)
	}

	openai := backends.OpenAI
	if openai == nil {
		t.Fatal("expected openai config")
	}
	if openai.Name != providers.NameOpenAI {
		t.Errorf("expected name %q, got %q", providers.NameOpenAI, openai.Name)
	}
	if openai.APIKey != "sk-test" {
		t.Errorf("expected API key carried over, got %q", openai.APIKey)
	}
	if openai.Model != "gpt-4o" {
		t.Errorf("expected model carried over, got %q", openai.Model)
	}
	if openai.BaseURL != "https://proxy.internal/v1" {
		t.Errorf("expected base URL carried over, got %q", openai.BaseURL)
	}
	if openai.Timeout != 45*time.Second {
		t.Errorf("expected timeout carried over, got %v", openai.Timeout)
	}
	if openai.MaxRetries != 5 {
		t.Errorf("expected max retries carried over, got %d", openai.MaxRetries)
	}
}

func TestBackendConfigs_DisabledBecomesNil(t *testing.T) {
	cfg := testConfig()
	disabled := false
	cfg.Providers.Ollama.Enabled = &disabled

	backends := BackendConfigs(cfg)

	if backends.Ollama != nil {
		t.Error("expected disabled ollama to map to nil")
	}
	if backends.OpenAI == nil {
		t.Error("expected enabled openai to map to a config")
	}
}

func TestNewRegistry_KeyGating(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.Claude.APIKey = "ant-test"
	cfg.Providers.Groq.APIKey = "groq-test"

	reg := NewRegistry(cfg)
	defer reg.Close()

	names := reg.Names()
	want := []string{providers.NameClaude, providers.NameGroq, providers.NameOllama}
	if len(names) != len(want) {
		t.Fatalf("expected providers %v, got %v", want, names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected names[%d] = %q, got %q", i, name, names[i])
		}
	}
}

func TestNewRegistry_OllamaDisabled(t *testing.T) {
	cfg := testConfig()
	disabled := false
	cfg.Providers.Ollama.Enabled = &disabled

	reg := NewRegistry(cfg)
	defer reg.Close()

	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %v", reg.Names())
	}
}

func TestNewRegistry_DefaultCarried(t *testing.T) {
	cfg := testConfig()
	cfg.Router.DefaultProvider = "gemini"

	reg := NewRegistry(cfg)
	defer reg.Close()

	// The configured default survives even though gemini has no key and
	// never registered; the router substitutes at request time.
	if reg.Default() != "gemini" {
		t.Errorf("expected default gemini, got %q", reg.Default())
	}
}
