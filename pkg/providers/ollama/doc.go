// Package ollama implements the Ollama provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for a locally running Ollama daemon, using its native /api/generate
// endpoint in non-streaming mode.
//
// # Basic Usage
//
//	provider, err := ollama.NewProvider(providers.Config{
//	    Name:  "ollama",
//	    Model: "llama3:8b",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(context.Background(), &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
//
// # Local Daemon Characteristics
//
// Ollama needs no API key, and construction always succeeds; whether the
// daemon is actually reachable only surfaces when a generation is attempted.
// The default timeout is 120 seconds since local CPU inference can be far
// slower than hosted APIs.
//
// # Wire Format
//
// Requests POST {model, prompt, stream: false} plus an optional system field
// and sampling options (num_predict in place of max_tokens). The generated
// text comes back in the response field of a single JSON object.
package ollama
