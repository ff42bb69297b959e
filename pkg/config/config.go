package config

import (
	"time"
)

// Config is the root configuration for the relay service.
//
// Configuration is loaded from a YAML file, then environment variable
// overrides are applied, then defaults fill the remaining gaps. Use
// LoadWithEnvOverrides for the full pipeline or Load to skip the
// environment.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Logging configures structured logging output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics exposure.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures OpenTelemetry distributed tracing.
	Tracing TracingConfig `yaml:"tracing"`

	// Providers configures the five AI backends.
	Providers ProvidersConfig `yaml:"providers"`

	// Router configures provider selection and fallback.
	Router RouterConfig `yaml:"router"`

	// Analysis configures the CRM analysis operations.
	Analysis AnalysisConfig `yaml:"analysis"`

	// History configures request history recording.
	History HistoryConfig `yaml:"history"`

	// Cache configures the Redis result cache for classification
	// operations.
	Cache CacheConfig `yaml:"cache"`

	// Quota configures per-client daily request quotas.
	Quota QuotaConfig `yaml:"quota"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address to bind the HTTP server to.
	// Default: "0.0.0.0:5000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Zero disables the limit; streaming responses need it off
	// because a fixed write window would cut long generations short.
	// Default: 0
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum duration to wait for the next request
	// on a keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is how long graceful shutdown waits for in-flight
	// requests before forcing the listener closed.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds a single request via a context deadline
	// applied in middleware. The deadline cuts off in-flight streams as
	// well, so leave it at zero when streaming clients are expected;
	// generation time is then bounded by the per-provider timeouts.
	// Default: 0
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS configures cross-origin resource sharing for the API.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS settings for the HTTP API.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// AllowedOrigins lists origins allowed to call the API.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "Authorization", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is how long preflight results may be cached, in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// IsEnabled reports whether CORS is enabled, defaulting to true when
// the field is unset.
func (c CORSConfig) IsEnabled() bool {
	return boolValue(c.Enabled, DefaultCORSEnabled)
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and bearer tokens in log output.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`
}

// RedactSecretsEnabled reports whether secret redaction is on,
// defaulting to true when the field is unset.
func (l LoggingConfig) RedactSecretsEnabled() bool {
	return boolValue(l.RedactSecrets, DefaultLoggingRedactSecrets)
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path the metrics endpoint is served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// IsEnabled reports whether metrics are enabled, defaulting to true
// when the field is unset.
func (m MetricsConfig) IsEnabled() bool {
	return boolValue(m.Enabled, DefaultMetricsEnabled)
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName identifies this service in exported traces.
	// Default: "relay"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of requests to trace, 0.0 to 1.0.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS on the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`
}

// ProvidersConfig holds per-backend settings for the five supported
// providers. Hosted backends register only when an API key is present;
// ollama registers whenever it is enabled.
type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai"`
	Claude ProviderConfig `yaml:"claude"`
	Gemini ProviderConfig `yaml:"gemini"`
	Groq   ProviderConfig `yaml:"groq"`
	Ollama ProviderConfig `yaml:"ollama"`
}

// ProviderConfig contains the settings for a single AI backend.
type ProviderConfig struct {
	// Enabled turns the backend off entirely when set to false. Hosted
	// backends additionally require an API key to register.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// APIKey authenticates requests to the backend. Hosted backends are
	// skipped at startup when this is empty; ollama ignores it.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the backend API endpoint. Empty uses the
	// adapter's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model is the model identifier sent with requests. Empty uses the
	// adapter's built-in default.
	Model string `yaml:"model"`

	// Timeout bounds a single HTTP request to the backend.
	// Default: 30s hosted, 120s ollama
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is how many times transient HTTP failures are retried.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`
}

// IsEnabled reports whether the backend is enabled, defaulting to true
// when the field is unset.
func (p ProviderConfig) IsEnabled() bool {
	return boolValue(p.Enabled, true)
}

// RouterConfig contains provider selection settings.
type RouterConfig struct {
	// DefaultProvider is used when a request does not name a provider.
	// "auto" selects the first registered backend in probe order.
	// Default: "auto"
	DefaultProvider string `yaml:"default_provider"`
}

// AnalysisConfig contains settings for the CRM analysis operations.
type AnalysisConfig struct {
	// PromptFile is an optional YAML file overriding the built-in
	// prompt templates. Empty keeps the defaults.
	PromptFile string `yaml:"prompt_file"`

	// WatchPrompts hot-reloads the prompt file on change.
	// Default: false
	WatchPrompts bool `yaml:"watch_prompts"`
}

// HistoryConfig contains request history settings.
type HistoryConfig struct {
	// Enabled controls whether completed requests are recorded.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Backend selects the storage backend: sqlite or memory.
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// BufferSize is the capacity of the async recording queue. Records
	// are dropped when the queue is full.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// SQLite configures the sqlite backend.
	SQLite HistorySQLiteConfig `yaml:"sqlite"`

	// Memory configures the in-memory backend.
	Memory HistoryMemoryConfig `yaml:"memory"`

	// Retention configures periodic pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// IsEnabled reports whether history recording is on, defaulting to
// true when the field is unset.
func (h HistoryConfig) IsEnabled() bool {
	return boolValue(h.Enabled, DefaultHistoryEnabled)
}

// HistorySQLiteConfig contains sqlite storage settings.
type HistorySQLiteConfig struct {
	// Path is the database file location.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns limits concurrent database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits pooled idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is how long sqlite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// HistoryMemoryConfig contains in-memory storage settings.
type HistoryMemoryConfig struct {
	// MaxRecords caps stored records; the oldest are evicted first.
	// Default: 10000
	MaxRecords int `yaml:"max_records"`
}

// RetentionConfig controls pruning of old history records.
type RetentionConfig struct {
	// Days is how long records are kept. Set to -1 to keep records
	// forever.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is a cron expression for when pruning runs.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// CacheConfig contains Redis result cache settings. The cache stores
// parsed sentiment and intent classifications keyed by input text.
type CacheConfig struct {
	// Enabled controls whether classification results are cached. When
	// Redis is unreachable at startup the cache degrades to a no-op.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// RedisURL is the Redis connection URL.
	// Default: "redis://localhost:6379/0"
	RedisURL string `yaml:"redis_url"`

	// Password overrides the password in RedisURL when set.
	Password string `yaml:"password"`

	// TTL is how long cached results live.
	// Default: 3600s
	TTL time.Duration `yaml:"ttl"`
}

// IsEnabled reports whether the cache is on, defaulting to true when
// the field is unset.
func (c CacheConfig) IsEnabled() bool {
	return boolValue(c.Enabled, DefaultCacheEnabled)
}

// QuotaConfig contains per-client daily quota settings.
type QuotaConfig struct {
	// Enabled controls whether quotas are enforced.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the counter store: memory or sqlite.
	// Default: "memory"
	Backend string `yaml:"backend"`

	// DailyLimit is the number of AI requests allowed per client per
	// UTC day.
	// Default: 1000
	DailyLimit int `yaml:"daily_limit"`

	// SQLitePath is the counter database location for the sqlite
	// backend.
	// Default: "data/quota.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// boolValue returns *b, or def when b is nil. Pointer booleans let the
// loader distinguish an absent field from an explicit false.
func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// boolPtr returns a pointer to b, for filling defaulted fields.
func boolPtr(b bool) *bool {
	return &b
}
