// Package cache fronts the analysis hot paths with Redis. Parsed
// sentiment and intent classifications are stored under a digest of the
// operation and input text; every cache failure degrades to a miss so a
// broken Redis never breaks request handling.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// keyPrefix namespaces relay entries in a shared Redis.
const keyPrefix = "relay:analysis:"

// Cache stores serialized analysis results keyed by operation and input
// text. Implementations swallow their own errors; a failed lookup is a
// miss.
type Cache interface {
	Get(ctx context.Context, operation, text string) ([]byte, bool)
	Set(ctx context.Context, operation, text string, value []byte)
	Close() error
}

// Metrics receives cache hit and miss counts. The telemetry collector
// satisfies it.
type Metrics interface {
	RecordCacheHit(cacheName string)
	RecordCacheMiss(cacheName string)
}

// Key derives the Redis key for an operation/text pair.
func Key(operation, text string) string {
	sum := sha256.Sum256([]byte(operation + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Noop is a Cache that stores nothing. It stands in when caching is
// disabled or Redis is unreachable at startup.
type Noop struct{}

// Get always misses.
func (Noop) Get(ctx context.Context, operation, text string) ([]byte, bool) {
	return nil, false
}

// Set drops the value.
func (Noop) Set(ctx context.Context, operation, text string, value []byte) {}

// Close is a no-op.
func (Noop) Close() error { return nil }
