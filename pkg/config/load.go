package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path,
// applies defaults, and validates the result. An empty path skips the
// file and yields a pure-defaults configuration. Environment variables
// are not consulted; use LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Two surfaces are recognized: the
// canonical backend variables CRM deployments already use
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY, GROQ_API_KEY,
// OLLAMA_BASE_URL, DEFAULT_AI_PROVIDER, ...) and namespaced RELAY_*
// variables covering every section (RELAY_SERVER_PORT,
// RELAY_PROVIDERS_OPENAI_API_KEY, ...). When both set the same field
// the RELAY_* variable wins.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply canonical backend variables
//  4. Apply RELAY_* overrides
//  5. Validate the final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyBackendEnvOverrides(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment before
// configuration is read. Variables already present in the environment
// are never overwritten. A missing file is not an error; an empty path
// means ".env" in the working directory.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// applyBackendEnvOverrides applies the canonical environment variables
// the original CRM deployments configure their backends with. Malformed
// numeric values are ignored.
func applyBackendEnvOverrides(cfg *Config) {
	// API keys
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.Providers.OpenAI.APIKey = val
	}
	if val := os.Getenv("ANTHROPIC_API_KEY"); val != "" {
		cfg.Providers.Claude.APIKey = val
	}
	if val := os.Getenv("GOOGLE_API_KEY"); val != "" {
		cfg.Providers.Gemini.APIKey = val
	}
	if val := os.Getenv("GROQ_API_KEY"); val != "" {
		cfg.Providers.Groq.APIKey = val
	}

	// Models
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		cfg.Providers.OpenAI.Model = val
	}
	if val := os.Getenv("ANTHROPIC_MODEL"); val != "" {
		cfg.Providers.Claude.Model = val
	}
	// GEMINI_FLASH_MODEL is the legacy spelling; GEMINI_MODEL wins when
	// both are set.
	if val := os.Getenv("GEMINI_FLASH_MODEL"); val != "" {
		cfg.Providers.Gemini.Model = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Providers.Gemini.Model = val
	}
	if val := os.Getenv("GROQ_MODEL"); val != "" {
		cfg.Providers.Groq.Model = val
	}
	if val := os.Getenv("OLLAMA_MODEL"); val != "" {
		cfg.Providers.Ollama.Model = val
	}
	if val := os.Getenv("OLLAMA_BASE_URL"); val != "" {
		cfg.Providers.Ollama.BaseURL = val
	}

	// Timeouts, in whole seconds to match the original settings
	if d, ok := secondsFromEnv("AI_TIMEOUT"); ok {
		cfg.Providers.OpenAI.Timeout = d
		cfg.Providers.Claude.Timeout = d
		cfg.Providers.Gemini.Timeout = d
		cfg.Providers.Groq.Timeout = d
	}
	if d, ok := secondsFromEnv("OLLAMA_TIMEOUT"); ok {
		cfg.Providers.Ollama.Timeout = d
	}

	// Routing
	if val := os.Getenv("DEFAULT_AI_PROVIDER"); val != "" {
		cfg.Router.DefaultProvider = val
	}

	// Cache
	if val := os.Getenv("REDIS_URL"); val != "" {
		cfg.Cache.RedisURL = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Cache.Password = val
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = boolPtr(b)
		}
	}
	if d, ok := secondsFromEnv("CACHE_TTL"); ok {
		cfg.Cache.TTL = d
	}
}

// applyEnvOverrides applies RELAY_SECTION_FIELD environment variable
// overrides to the configuration. Malformed values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("RELAY_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("RELAY_SERVER_PORT"); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			cfg.Server.ListenAddress = replacePort(cfg.Server.ListenAddress, val)
		}
	}
	if val := os.Getenv("RELAY_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Logging overrides
	if val := os.Getenv("RELAY_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("RELAY_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("RELAY_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}
	if val := os.Getenv("RELAY_LOGGING_REDACT_SECRETS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.RedactSecrets = boolPtr(b)
		}
	}

	// Metrics overrides
	if val := os.Getenv("RELAY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("RELAY_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}

	// Tracing overrides
	if val := os.Getenv("RELAY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("RELAY_TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv("RELAY_TRACING_SERVICE_NAME"); val != "" {
		cfg.Tracing.ServiceName = val
	}
	if val := os.Getenv("RELAY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}
	if val := os.Getenv("RELAY_TRACING_INSECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Insecure = b
		}
	}

	// Provider overrides
	applyProviderEnvOverrides(&cfg.Providers.OpenAI, "OPENAI")
	applyProviderEnvOverrides(&cfg.Providers.Claude, "CLAUDE")
	applyProviderEnvOverrides(&cfg.Providers.Gemini, "GEMINI")
	applyProviderEnvOverrides(&cfg.Providers.Groq, "GROQ")
	applyProviderEnvOverrides(&cfg.Providers.Ollama, "OLLAMA")

	// Router overrides
	if val := os.Getenv("RELAY_ROUTER_DEFAULT_PROVIDER"); val != "" {
		cfg.Router.DefaultProvider = val
	}

	// Analysis overrides
	if val := os.Getenv("RELAY_ANALYSIS_PROMPT_FILE"); val != "" {
		cfg.Analysis.PromptFile = val
	}
	if val := os.Getenv("RELAY_ANALYSIS_WATCH_PROMPTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Analysis.WatchPrompts = b
		}
	}

	// History overrides
	if val := os.Getenv("RELAY_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("RELAY_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("RELAY_HISTORY_BUFFER_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.BufferSize = i
		}
	}
	if val := os.Getenv("RELAY_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("RELAY_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("RELAY_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.Retention.Schedule = val
	}

	// Cache overrides
	if val := os.Getenv("RELAY_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("RELAY_CACHE_REDIS_URL"); val != "" {
		cfg.Cache.RedisURL = val
	}
	if val := os.Getenv("RELAY_CACHE_PASSWORD"); val != "" {
		cfg.Cache.Password = val
	}
	if val := os.Getenv("RELAY_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}

	// Quota overrides
	if val := os.Getenv("RELAY_QUOTA_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Quota.Enabled = b
		}
	}
	if val := os.Getenv("RELAY_QUOTA_BACKEND"); val != "" {
		cfg.Quota.Backend = val
	}
	if val := os.Getenv("RELAY_QUOTA_DAILY_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Quota.DailyLimit = i
		}
	}
	if val := os.Getenv("RELAY_QUOTA_SQLITE_PATH"); val != "" {
		cfg.Quota.SQLitePath = val
	}
}

// applyProviderEnvOverrides applies RELAY_PROVIDERS_<NAME>_<FIELD>
// overrides to a single backend.
func applyProviderEnvOverrides(p *ProviderConfig, name string) {
	prefix := "RELAY_PROVIDERS_" + strings.ToUpper(name) + "_"

	if val := os.Getenv(prefix + "ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			p.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		p.APIKey = val
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		p.BaseURL = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		p.Model = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			p.Timeout = d
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			p.MaxRetries = i
		}
	}
}

// secondsFromEnv reads an environment variable holding a whole number
// of seconds, the unit the original settings used for timeouts.
func secondsFromEnv(key string) (time.Duration, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// replacePort swaps the port of a host:port address, keeping the host.
func replacePort(addr, port string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, port)
}
