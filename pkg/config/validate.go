package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access
// to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// ValidProviderNames are the values accepted for router.default_provider
// besides "auto".
var ValidProviderNames = []string{"openai", "claude", "gemini", "groq", "ollama"}

// Validate checks the entire configuration and returns a
// ValidationError when any rule fails. All errors are collected and
// returned together so one pass reports everything that is wrong.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateTracing(&cfg.Tracing)...)
	errs = append(errs, validateProviders(&cfg.Providers)...)
	errs = append(errs, validateRouter(&cfg.Router)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateQuota(&cfg.Quota)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid host:port address: %v", err),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be non-negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be non-negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be non-negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be non-negative",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	return errs
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Level != "" && !validLevels[strings.ToLower(cfg.Level)] {
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q: must be debug, info, warn, or error", cfg.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Format != "" && !validFormats[strings.ToLower(cfg.Format)] {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q: must be json or text", cfg.Format),
		})
	}

	return errs
}

// validateMetrics validates metrics configuration.
func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if cfg.IsEnabled() && !strings.HasPrefix(cfg.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: "path must start with /",
		})
	}

	return errs
}

// validateTracing validates tracing configuration.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

// validateProviders validates the five backend configurations.
func validateProviders(cfg *ProvidersConfig) []FieldError {
	var errs []FieldError

	backends := []struct {
		name string
		cfg  *ProviderConfig
	}{
		{"openai", &cfg.OpenAI},
		{"claude", &cfg.Claude},
		{"gemini", &cfg.Gemini},
		{"groq", &cfg.Groq},
		{"ollama", &cfg.Ollama},
	}

	for _, b := range backends {
		prefix := "providers." + b.name

		if b.cfg.BaseURL != "" {
			u, err := url.Parse(b.cfg.BaseURL)
			if err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL: %v", err),
				})
			} else if u.Scheme != "http" && u.Scheme != "https" {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL scheme %q: must be http or https", u.Scheme),
				})
			}
		}

		if b.cfg.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be non-negative",
			})
		}
		if b.cfg.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries must be non-negative",
			})
		}
		if b.cfg.MaxRetries > 10 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries exceeds reasonable limit (10)",
			})
		}
	}

	return errs
}

// validateRouter validates routing configuration.
func validateRouter(cfg *RouterConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultProvider == "" {
		errs = append(errs, FieldError{
			Field:   "router.default_provider",
			Message: "default provider is required",
		})
		return errs
	}

	if cfg.DefaultProvider != "auto" {
		valid := false
		for _, name := range ValidProviderNames {
			if cfg.DefaultProvider == name {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, FieldError{
				Field: "router.default_provider",
				Message: fmt.Sprintf("unknown provider %q: must be auto or one of %s",
					cfg.DefaultProvider, strings.Join(ValidProviderNames, ", ")),
			})
		}
	}

	return errs
}

// validateHistory validates history configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"sqlite": true, "memory": true}
	if cfg.Backend != "" && !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.path",
			Message: "path is required when backend is 'sqlite'",
		})
	}
	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "history.buffer_size",
			Message: "buffer size must be non-negative",
		})
	}
	if cfg.Memory.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.memory.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Retention.Days < -1 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days must be -1 (keep forever) or positive",
		})
	}

	return errs
}

// validateCache validates cache configuration.
func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	if cfg.IsEnabled() {
		if cfg.RedisURL == "" {
			errs = append(errs, FieldError{
				Field:   "cache.redis_url",
				Message: "redis URL is required when cache is enabled",
			})
		} else if u, err := url.Parse(cfg.RedisURL); err != nil {
			errs = append(errs, FieldError{
				Field:   "cache.redis_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "redis" && u.Scheme != "rediss" {
			errs = append(errs, FieldError{
				Field:   "cache.redis_url",
				Message: fmt.Sprintf("invalid URL scheme %q: must be redis or rediss", u.Scheme),
			})
		}
	}
	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be non-negative",
		})
	}

	return errs
}

// validateQuota validates quota configuration.
func validateQuota(cfg *QuotaConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if cfg.Backend != "" && !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "quota.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}
	if cfg.Enabled && cfg.DailyLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "quota.daily_limit",
			Message: "daily limit must be positive when quota is enabled",
		})
	}
	if cfg.Enabled && cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "quota.sqlite_path",
			Message: "path is required when backend is 'sqlite'",
		})
	}

	return errs
}
