// Package gemini implements the Gemini provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Google's Generative Language API (the generateContent endpoint).
//
// # Basic Usage
//
//	config := providers.Config{
//	    Name:   "gemini",
//	    APIKey: os.Getenv("GOOGLE_API_KEY"),
//	    Model:  "gemini-1.5-flash",
//	}
//
//	provider, err := gemini.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(context.Background(), &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
//
// # Wire Format
//
// Requests POST to {base}/{model}:generateContent with the API key as a
// query parameter (Gemini does not use an Authorization header). The prompt
// travels as a single content part; a system prompt, when set, is folded
// into the text ahead of the prompt since this endpoint has no separate
// system channel. Sampling parameters map to generationConfig with
// maxOutputTokens in place of max_tokens.
//
// # Response Handling
//
// The adapter reads the first candidate's content parts and concatenates
// their text. A response with no candidates or no parts is a ParseError.
package gemini
