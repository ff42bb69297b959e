package providers

import "time"

// GenerationRequest is the normalized request every adapter accepts.
// It is transformed to provider-specific wire formats by each adapter.
//
// A request is a value object: constructed per call, never mutated.
type GenerationRequest struct {
	// Prompt is the text prompt for generation (required, non-empty)
	Prompt string `json:"prompt"`

	// Provider optionally names the backend to try first. It is consumed by
	// the router, not by adapters. Empty means "use the configured default".
	Provider string `json:"provider,omitempty"`

	// Temperature controls randomness (conventionally 0.0 to 2.0).
	// Zero means "use the adapter's default". Out-of-range values are passed
	// through to the backend unvalidated.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate.
	// Zero means "use the adapter's default".
	MaxTokens int `json:"max_tokens,omitempty"`

	// SystemPrompt is an optional system instruction. Adapters that support a
	// system channel fold it in; adapters supply their own default when empty.
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// GenerationResult is the uniform result shape returned by the router
// regardless of which backend served the request.
type GenerationResult struct {
	// Text is the raw generated text
	Text string `json:"text"`

	// Provider is the name of the backend that actually produced the text.
	// It may differ from the requested provider if fallback occurred.
	Provider string `json:"provider"`

	// Model is the model identifier, or ModelAuto when not tracked precisely
	Model string `json:"model"`
}

// Chunk is a single increment in a streaming generation.
type Chunk struct {
	// Text is the incremental content in this chunk
	Text string `json:"text"`

	// Err is set if an error occurred during streaming; it terminates the stream
	Err error `json:"-"`
}

// Config contains the configuration for a single adapter instance.
// This is a subset of config.ProviderConfig with only the fields adapters need.
type Config struct {
	// Name is the canonical backend name (e.g., "openai", "claude")
	Name string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the authentication key (empty for local backends)
	APIKey string

	// Model is the model identifier sent to the backend
	Model string

	// Timeout is the request timeout duration
	Timeout time.Duration

	// MaxRetries is the maximum number of transport-level retry attempts
	MaxRetries int

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// ModelAuto is the model identifier reported when the serving model is not
// tracked precisely.
const ModelAuto = "auto"

// Canonical backend names, in registry probe order.
const (
	NameOpenAI = "openai"
	NameClaude = "claude"
	NameGemini = "gemini"
	NameGroq   = "groq"
	NameOllama = "ollama"
)

// Shared generation defaults applied by adapters when request fields are zero.
const (
	DefaultSystemPrompt = "You are a helpful AI assistant."
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1000
)
