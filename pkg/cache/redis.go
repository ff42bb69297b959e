package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"hunterhq/relay/pkg/config"
)

const (
	// cacheName labels this cache in hit/miss metrics.
	cacheName = "analysis"

	// dialTimeout bounds the startup connectivity check.
	dialTimeout = 5 * time.Second
)

// Redis caches analysis results in Redis with a fixed TTL.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	metrics Metrics
	logger  *slog.Logger
}

// New builds the analysis result cache from configuration. When caching
// is disabled, the URL does not parse, or Redis cannot be reached at
// startup, it returns a Noop cache so callers never special-case a
// missing backend. metrics may be nil.
func New(cfg *config.CacheConfig, metrics Metrics) Cache {
	logger := slog.Default().With("component", "cache")

	if cfg == nil || !cfg.IsEnabled() {
		logger.Info("result cache disabled")
		return Noop{}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, caching disabled", "error", err)
		return Noop{}
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logger.Warn("redis unreachable, caching disabled",
			"addr", opt.Addr,
			"error", err,
		)
		return Noop{}
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = config.DefaultCacheTTL
	}

	logger.Info("result cache connected",
		"addr", opt.Addr,
		"ttl", ttl,
	)

	return &Redis{
		client:  client,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Get implements Cache. Lookup failures count as misses.
func (r *Redis) Get(ctx context.Context, operation, text string) ([]byte, bool) {
	value, err := r.client.Get(ctx, Key(operation, text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("cache get failed", "operation", operation, "error", err)
		}
		r.recordMiss()
		return nil, false
	}

	r.recordHit()
	return value, true
}

// Set implements Cache. Write failures are logged and dropped.
func (r *Redis) Set(ctx context.Context, operation, text string, value []byte) {
	if err := r.client.Set(ctx, Key(operation, text), value, r.ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", "operation", operation, "error", err)
	}
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) recordHit() {
	if r.metrics != nil {
		r.metrics.RecordCacheHit(cacheName)
	}
}

func (r *Redis) recordMiss() {
	if r.metrics != nil {
		r.metrics.RecordCacheMiss(cacheName)
	}
}
