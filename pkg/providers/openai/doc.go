// Package openai implements the OpenAI provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for OpenAI's chat completions API. It supports:
//
//   - Text generation via chat completions
//   - Streaming responses (Server-Sent Events)
//   - Token usage logging
//
// It is the only adapter that implements providers.StreamingProvider.
//
// # Basic Usage
//
//	config := providers.Config{
//	    Name:    "openai",
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Model:   "gpt-4-turbo-preview",
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
//	chunks, err := provider.StreamGenerate(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk := range chunks {
//	    if chunk.Err != nil {
//	        log.Fatal(chunk.Err)
//	    }
//	    fmt.Print(chunk.Text)
//	}
//
// # Request Transformation
//
// The adapter builds a two-message conversation from the normalized request:
// a system message (the request's SystemPrompt, or the shared default when
// empty) followed by a user message carrying the prompt. Zero Temperature and
// MaxTokens take the shared generation defaults (0.7 and 1000).
//
// # Error Handling
//
// The adapter maps OpenAI HTTP errors to the common error types:
//
//   - 401/403 -> AuthError
//   - 429 -> RateLimitError (includes retry-after)
//   - 5xx -> ProviderError (retried automatically)
//   - malformed body -> ParseError
package openai
