// Package providers implements a unified abstraction layer for AI backends.
//
// # Overview
//
// The providers package defines the normalized generation contract shared by
// every backend adapter (OpenAI, Claude, Gemini, Groq, Ollama). Each adapter
// encapsulates exactly one backend's wire format behind the single capability
// Generate(request) -> text; the router in pkg/routing dispatches between them.
//
// # Architecture
//
// The package is organized into three layers:
//
//  1. Provider Interface - the generate capability all adapters implement
//  2. HTTPClient - common HTTP transport (connection pooling, retries, typed errors)
//  3. Adapter subpackages - one per backend wire format (openai, claude, gemini, groq, ollama)
//
// # Basic Usage
//
// Create a single adapter:
//
//	config := providers.Config{
//	    Name:    "openai",
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Model:   "gpt-4-turbo-preview",
//	    Timeout: 30 * time.Second,
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(context.Background(), &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text)
//
// # Streaming
//
// Adapters that implement StreamingProvider can stream output incrementally:
//
//	if sp, ok := provider.(providers.StreamingProvider); ok {
//	    chunks, err := sp.StreamGenerate(ctx, req)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for chunk := range chunks {
//	        if chunk.Err != nil {
//	            log.Fatal(chunk.Err)
//	        }
//	        fmt.Print(chunk.Text)
//	    }
//	}
//
// # Error Handling
//
// The package defines specific error types for common failure scenarios:
//
//   - ProviderError: general backend errors
//   - AuthError: authentication failures (HTTP 401/403)
//   - RateLimitError: rate limit exceeded (HTTP 429)
//   - TimeoutError: request timeout
//   - ParseError: response parsing failure
//   - ValidationError: invalid request
//
// CauseOf classifies any adapter error into one of the failure cause
// categories {transport_error, auth_error, rate_limited, invalid_response,
// timeout} used in router diagnostics:
//
//	text, err := provider.Generate(ctx, req)
//	if err != nil {
//	    fmt.Printf("failed (%s): %v\n", providers.CauseOf(err), err)
//	}
//
// # Connection Pooling and Retries
//
// All adapters share the HTTPClient base, which pools connections and retries
// transient errors (network failures, 5xx) with exponential backoff. Auth
// failures, rate limits, and client errors are never retried at the transport
// level - the router handles those by falling back to another backend.
//
// # Thread Safety
//
// Adapters hold no request state and are safe for concurrent use from
// multiple goroutines.
package providers
