package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:5000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 0 * time.Second // streaming responses
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 0 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Logging defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingRedactSecrets = true

	// Metrics defaults
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	// Tracing defaults
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "relay"
	DefaultTracingSampleRatio = 1.0

	// Provider defaults. Hosted backends share one timeout; ollama runs
	// models locally and gets a much longer one.
	DefaultProviderTimeout    = 30 * time.Second
	DefaultOllamaTimeout      = 120 * time.Second
	DefaultProviderMaxRetries = 3

	DefaultOpenAIModel   = "gpt-4-turbo-preview"
	DefaultClaudeModel   = "claude-3-5-sonnet-20240620"
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultGroqModel     = "llama-3.1-70b-versatile"
	DefaultOllamaModel   = "llama3:8b"
	DefaultOllamaBaseURL = "http://localhost:11434"

	// Router defaults
	DefaultRouterProvider = "auto"

	// History defaults
	DefaultHistoryEnabled           = true
	DefaultHistoryBackend           = "sqlite"
	DefaultHistoryBufferSize        = 1000
	DefaultHistorySQLitePath        = "data/history.db"
	DefaultHistoryMaxOpenConns      = 10
	DefaultHistoryMaxIdleConns      = 5
	DefaultHistoryBusyTimeout       = 5 * time.Second
	DefaultHistoryMemoryMaxRecords  = 10000
	DefaultHistoryRetentionDays     = 90
	DefaultHistoryRetentionSchedule = "0 3 * * *"

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 3600 * time.Second
	DefaultRedisURL     = "redis://localhost:6379/0"

	// Quota defaults
	DefaultQuotaBackend    = "memory"
	DefaultQuotaDailyLimit = 1000
	DefaultQuotaSQLitePath = "data/quota.db"
)

// ApplyDefaults fills zero-valued fields with defaults. It is
// idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults. WriteTimeout and RequestTimeout default to zero
	// (disabled) so they need no filling.
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// CORS defaults
	if cfg.Server.CORS.Enabled == nil {
		cfg.Server.CORS.Enabled = boolPtr(DefaultCORSEnabled)
	}
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Logging.RedactSecrets == nil {
		cfg.Logging.RedactSecrets = boolPtr(DefaultLoggingRedactSecrets)
	}

	// Metrics defaults
	if cfg.Metrics.Enabled == nil {
		cfg.Metrics.Enabled = boolPtr(DefaultMetricsEnabled)
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// Tracing defaults
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}

	// Provider defaults
	applyProviderDefaults(&cfg.Providers.OpenAI, DefaultOpenAIModel, DefaultProviderTimeout)
	applyProviderDefaults(&cfg.Providers.Claude, DefaultClaudeModel, DefaultProviderTimeout)
	applyProviderDefaults(&cfg.Providers.Gemini, DefaultGeminiModel, DefaultProviderTimeout)
	applyProviderDefaults(&cfg.Providers.Groq, DefaultGroqModel, DefaultProviderTimeout)
	applyProviderDefaults(&cfg.Providers.Ollama, DefaultOllamaModel, DefaultOllamaTimeout)
	if cfg.Providers.Ollama.BaseURL == "" {
		cfg.Providers.Ollama.BaseURL = DefaultOllamaBaseURL
	}

	// Router defaults
	if cfg.Router.DefaultProvider == "" {
		cfg.Router.DefaultProvider = DefaultRouterProvider
	}

	// History defaults
	if cfg.History.Enabled == nil {
		cfg.History.Enabled = boolPtr(DefaultHistoryEnabled)
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.BufferSize == 0 {
		cfg.History.BufferSize = DefaultHistoryBufferSize
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultHistoryMaxIdleConns
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.History.Memory.MaxRecords == 0 {
		cfg.History.Memory.MaxRecords = DefaultHistoryMemoryMaxRecords
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultHistoryRetentionDays
	}
	if cfg.History.Retention.Schedule == "" {
		cfg.History.Retention.Schedule = DefaultHistoryRetentionSchedule
	}

	// Cache defaults
	if cfg.Cache.Enabled == nil {
		cfg.Cache.Enabled = boolPtr(DefaultCacheEnabled)
	}
	if cfg.Cache.RedisURL == "" {
		cfg.Cache.RedisURL = DefaultRedisURL
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// Quota defaults
	if cfg.Quota.Backend == "" {
		cfg.Quota.Backend = DefaultQuotaBackend
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = DefaultQuotaDailyLimit
	}
	if cfg.Quota.SQLitePath == "" {
		cfg.Quota.SQLitePath = DefaultQuotaSQLitePath
	}
}

func applyProviderDefaults(p *ProviderConfig, model string, timeout time.Duration) {
	if p.Enabled == nil {
		p.Enabled = boolPtr(true)
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.Timeout == 0 {
		p.Timeout = timeout
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultProviderMaxRetries
	}
}
