// Package claude implements the Claude provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API (Claude 3.5 family).
//
// # Basic Usage
//
//	config := providers.Config{
//	    Name:    "claude",
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:   "claude-3-5-sonnet-20240620",
//	}
//
//	provider, err := claude.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(context.Background(), &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
//
// # Request Transformation
//
// The prompt is sent as a single user message. The system prompt, when set,
// maps to Anthropic's top-level system field rather than a message. Anthropic
// requires max_tokens on every request, so a zero MaxTokens takes the adapter
// default of 1024. Temperature is sent only when set; the backend default
// applies otherwise.
//
// # Authentication
//
// Anthropic authenticates via the x-api-key header plus a pinned
// anthropic-version header, not a Bearer token.
//
// # Response Handling
//
// Responses carry a list of typed content blocks; the adapter concatenates
// the text blocks into the returned string. A response with no content
// blocks is a ParseError.
package claude
