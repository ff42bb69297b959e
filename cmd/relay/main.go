// Relay is a multi-provider AI request router for CRM workloads.
//
// It fronts five AI backends (OpenAI, Claude, Gemini, Groq, Ollama)
// behind one HTTP API, providing:
//   - Sequential fallback across every configured backend
//   - CRM operations: sentiment, intent, response drafting, summarization
//   - Server-sent-event streaming for text generation
//   - Request history, daily quotas, metrics, and tracing
//
// Usage:
//
//	# Start the server with environment-driven configuration
//	relay run
//
//	# Start with a configuration file
//	relay run --config /etc/relay/config.yaml
//
//	# Validate configuration without starting the server
//	relay validate --config config.yaml
//
//	# Show configured providers
//	relay providers
//
//	# Show version information
//	relay version
package main

func main() {
	Execute()
}
