package providers

import "context"

// Provider is the capability interface implemented by every backend adapter.
// Each adapter encapsulates exactly one backend's wire format: it translates
// a normalized GenerationRequest into a provider-specific call and returns
// the raw generated text.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return immediately
// when the context is cancelled.
//
// Adapters are stateless beyond their credentials and endpoint configuration.
// They never swallow failures: every error is returned typed (AuthError,
// RateLimitError, TimeoutError, ParseError, ProviderError) so the router can
// classify its cause and attempt fallback.
//
// Example usage:
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(ctx, &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
type Provider interface {
	// Generate produces text for the given request. Backend-specific defaults
	// (system prompt, temperature, max tokens) are applied by the adapter when
	// the corresponding request fields are zero. No structural parsing is
	// performed here; the raw generated text is returned as-is.
	Generate(ctx context.Context, req *GenerationRequest) (string, error)

	// Name returns the canonical backend name ("openai", "claude", "gemini",
	// "groq", "ollama").
	Name() string

	// Model returns the configured model identifier, or ModelAuto when the
	// adapter does not track one.
	Model() string

	// Close releases any held resources (HTTP connections, etc.).
	// After calling Close, the provider should not be used.
	Close() error
}

// StreamingProvider is implemented by adapters that can stream generation
// output incrementally. The returned channel yields a lazy, finite,
// non-restartable sequence of text chunks and is closed when the stream ends.
//
// The caller must read from the channel until it closes. If an error occurs
// during streaming, it is set in the Err field of the final Chunk.
//
// Example:
//
//	chunks, err := sp.StreamGenerate(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for chunk := range chunks {
//	    if chunk.Err != nil {
//	        return chunk.Err
//	    }
//	    fmt.Print(chunk.Text)
//	}
type StreamingProvider interface {
	Provider

	// StreamGenerate starts a streaming generation. The channel is closed
	// after the final chunk or after an error chunk. If the context is
	// cancelled, the stream is closed and no more chunks are sent.
	StreamGenerate(ctx context.Context, req *GenerationRequest) (<-chan Chunk, error)
}

// CanStream reports whether the provider supports streaming generation.
func CanStream(p Provider) bool {
	_, ok := p.(StreamingProvider)
	return ok
}

// ValidateRequest checks the invariants every adapter requires before a
// request goes on the wire. Adapters call this first in Generate.
func ValidateRequest(req *GenerationRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Message: "request cannot be nil"}
	}
	if req.Prompt == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if req.MaxTokens < 0 {
		return &ValidationError{Field: "max_tokens", Message: "max_tokens must be positive"}
	}
	return nil
}
