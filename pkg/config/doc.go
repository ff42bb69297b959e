// Package config provides configuration management for the relay
// service.
//
// This package handles loading, validating, and managing configuration
// from YAML files with environment variable overrides. It provides a
// type-safe configuration system with validation and sensible
// defaults; a zero-configuration start (no file, no environment) is
// valid and runs with only the backends reachable without credentials.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("config.yaml")
//
// Passing an empty path skips the file and starts from defaults.
// LoadEnvFile loads a dotenv file into the process environment first,
// without overwriting variables that are already set:
//
//	_ = config.LoadEnvFile("")        // best-effort ./.env
//	cfg, err := config.LoadWithEnvOverrides(path)
//
// # Environment Variable Overrides
//
// Two surfaces are recognized. Canonical backend variables are the
// names CRM deployments already export:
//
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY, GROQ_API_KEY
//   - OPENAI_MODEL, ANTHROPIC_MODEL, GEMINI_MODEL, GROQ_MODEL
//   - OLLAMA_BASE_URL, OLLAMA_MODEL, OLLAMA_TIMEOUT
//   - DEFAULT_AI_PROVIDER, AI_TIMEOUT
//   - REDIS_URL, REDIS_PASSWORD, CACHE_ENABLED, CACHE_TTL
//
// Namespaced variables follow RELAY_SECTION_FIELD and cover every
// section:
//
//   - RELAY_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - RELAY_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key
//   - RELAY_LOGGING_LEVEL overrides logging.level
//
// When both surfaces set the same field, the RELAY_* variable wins.
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Canonical backend environment variables
//  4. RELAY_* environment variables
//  5. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading.
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - server.listen_address: invalid host:port address
//	  - router.default_provider: unknown provider "chatgpt"
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "0.0.0.0:5000"
//
//	providers:
//	  # API keys usually come from the environment instead of the file.
//	  ollama:
//	    base_url: "http://localhost:11434"
//	    model: "llama3:8b"
//
//	router:
//	  default_provider: "auto"
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// Hosted backends register at startup only when an API key is present,
// so a file that never mentions a backend simply leaves it out of the
// registry.
package config
