package routing

import (
	"context"
	"time"
)

// Operation names the router entry point that produced a report.
const (
	OperationGenerate       = "generate"
	OperationStreamGenerate = "stream_generate"
)

// Report describes one completed router operation. It is delivered to
// observers after the outcome is known, on the caller's goroutine for
// blocking generations and on the stream forwarding goroutine for streams.
type Report struct {
	// Operation is the router entry point, or the caller-supplied operation
	// name carried in the request context.
	Operation string

	// RequestID is the request correlation id from the context, if any.
	RequestID string

	// RequestedProvider is the backend the caller asked for after applying
	// the configured default, before any substitution.
	RequestedProvider string

	// Substituted is true when RequestedProvider named no registered backend
	// and the first registered backend was used in its place.
	Substituted bool

	// ActualProvider is the backend that served the request. Empty when
	// every backend failed.
	ActualProvider string

	// Model is the model identifier reported by the serving backend.
	Model string

	// Attempts holds the failed attempts that preceded the outcome.
	Attempts []Attempt

	// Err is the terminal error, nil on success.
	Err error

	// Duration is the wall time of the whole operation including fallback.
	Duration time.Duration

	// PromptChars and ResponseChars size the exchange without retaining its
	// content.
	PromptChars   int
	ResponseChars int
}

// Observer receives a report after every completed router operation.
// Implementations must be safe for concurrent use and must not block;
// slow observers delay the caller.
type Observer interface {
	ObserveGenerate(report Report)
}

// MultiObserver fans a report out to several observers in order.
type MultiObserver []Observer

// ObserveGenerate implements Observer.
func (m MultiObserver) ObserveGenerate(report Report) {
	for _, observer := range m {
		observer.ObserveGenerate(report)
	}
}

type contextKey int

const operationKey contextKey = iota

// WithOperation annotates the context with the logical operation name so
// router reports attribute traffic to the derived operation that issued it
// (sentiment, intent, ...) instead of the generic generate entry point.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey, operation)
}

// OperationFromContext returns the operation annotation, or fallback when
// the context carries none.
func OperationFromContext(ctx context.Context, fallback string) string {
	if op, ok := ctx.Value(operationKey).(string); ok && op != "" {
		return op
	}
	return fallback
}
