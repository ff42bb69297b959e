// Package groq implements the Groq provider adapter.
//
// Groq serves fast LLM inference behind an OpenAI-compatible chat completions
// API, so this adapter delegates the wire handling to the openai package and
// contributes only Groq's endpoint, model defaults, and configuration checks.
//
// # Basic Usage
//
//	config := providers.Config{
//	    Name:   "groq",
//	    APIKey: os.Getenv("GROQ_API_KEY"),
//	    Model:  "llama-3.1-70b-versatile",
//	}
//
//	provider, err := groq.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generate(context.Background(), &providers.GenerationRequest{
//	    Prompt: "Hello!",
//	})
//
// Unlike the openai package, groq does not implement
// providers.StreamingProvider: only the generate capability is exposed.
package groq
