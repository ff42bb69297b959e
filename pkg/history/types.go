// Package history provides an audit log of completed router operations.
// Records capture which backend served a request and how the fallback
// chain behaved, without retaining prompt or response content.
package history

import (
	"context"
	"time"
)

// Record statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is a single audit entry for a completed router operation.
type Record struct {
	// ID is the unique record identifier (UUID).
	ID string `json:"id"`

	// Timestamp is when the operation completed, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// RequestID correlates the record with request logs and traces.
	RequestID string `json:"request_id,omitempty"`

	// Operation is the logical operation that issued the request
	// (generate, sentiment, intent, generate_response, summarize).
	Operation string `json:"operation"`

	// RequestedProvider is the backend the caller asked for, after
	// applying the configured default.
	RequestedProvider string `json:"requested_provider,omitempty"`

	// ActualProvider is the backend that served the request. Empty when
	// every backend failed.
	ActualProvider string `json:"actual_provider,omitempty"`

	// Model is the model identifier reported by the serving backend.
	Model string `json:"model,omitempty"`

	// Status is "success" or "error".
	Status string `json:"status"`

	// FailureCause classifies the terminal error on failed operations.
	FailureCause string `json:"failure_cause,omitempty"`

	// Attempts counts the failed backend attempts that preceded the
	// outcome. Zero means the first backend served the request.
	Attempts int `json:"attempts"`

	// PromptChars and ResponseChars size the exchange.
	PromptChars   int `json:"prompt_chars"`
	ResponseChars int `json:"response_chars"`

	// LatencyMs is the wall time of the operation including fallback.
	LatencyMs int64 `json:"latency_ms"`
}

// Query contains filters for retrieving history records.
// Zero-value fields are ignored.
type Query struct {
	// Since and Until bound the record timestamp (inclusive).
	Since *time.Time
	Until *time.Time

	// Operation filters by logical operation name.
	Operation string

	// Provider filters by the backend that served the request.
	Provider string

	// Status filters by outcome ("success" or "error").
	Status string

	// Limit caps the number of returned records. Default: 100.
	Limit int

	// Offset skips the first N matching records.
	Offset int
}

// Storage persists history records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a single record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many
	// were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
