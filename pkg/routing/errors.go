package routing

import (
	"errors"
	"fmt"
	"strings"

	"hunterhq/relay/pkg/providers"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrNoProvidersAvailable is returned when the registry is empty and no
	// backend can be attempted.
	ErrNoProvidersAvailable = errors.New("no providers available")

	// ErrAllProvidersFailed is returned when every registered backend was
	// attempted and all of them failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrStreamingNotSupported is returned when the resolved backend does not
	// implement streaming generation.
	ErrStreamingNotSupported = errors.New("provider does not support streaming")
)

// Attempt records one failed backend attempt during fallback.
type Attempt struct {
	// Provider is the name of the backend that was attempted.
	Provider string

	// Cause is the failure category derived from the error.
	Cause providers.FailureCause

	// Err is the underlying error returned by the backend.
	Err error
}

// AllProvidersFailedError is returned when every registered backend was
// attempted exactly once and none succeeded. Attempts holds one record per
// backend in the order they were tried.
type AllProvidersFailedError struct {
	Attempts []Attempt
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", attempt.Provider, attempt.Cause))
	}
	return fmt.Sprintf("all providers failed (attempted: %s)", strings.Join(parts, ", "))
}

// Is implements error matching for errors.Is().
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap returns the error from the last attempted backend.
func (e *AllProvidersFailedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Causes returns the failure categories of all attempts in attempt order.
func (e *AllProvidersFailedError) Causes() []providers.FailureCause {
	causes := make([]providers.FailureCause, len(e.Attempts))
	for i, attempt := range e.Attempts {
		causes[i] = attempt.Cause
	}
	return causes
}

// StreamingNotSupportedError is returned when a streaming generation was
// requested but the resolved backend only implements blocking generation.
type StreamingNotSupportedError struct {
	// Provider is the backend that was resolved for the request.
	Provider string
}

// Error implements the error interface.
func (e *StreamingNotSupportedError) Error() string {
	return fmt.Sprintf("provider %q does not support streaming", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *StreamingNotSupportedError) Is(target error) bool {
	return target == ErrStreamingNotSupported
}
