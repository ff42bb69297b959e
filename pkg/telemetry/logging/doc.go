// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Automatic redaction of backend credentials (API keys, bearer tokens)
//   - Context-aware logging with request IDs and routing metadata
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	// Log structured data
//	logger.Info("request completed",
//	    "request_id", "req-123",
//	    "api_key", "sk-abc123",  // Automatically redacted
//	    "duration_ms", 1234,
//	)
//
//	// Context-aware logging
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "routing request")  // Includes request_id
//
// The command layer installs the logger's slog.Logger as the process default
// so package-level slog calls share the same handler and level.
//
// # Secret Redaction
//
// Credentials are redacted from log fields when RedactSecrets is enabled:
//
//   - OpenAI/Anthropic keys: sk-abc123xyz
//   - Groq keys: gsk_abc123
//   - Google keys: AIzaSyAbc123
//   - Bearer tokens and key query parameters
//
// Fields whose key names look sensitive (api_key, token, secret, ...) are
// masked regardless of value shape.
package logging
