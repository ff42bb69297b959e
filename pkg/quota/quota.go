// Package quota enforces a daily request budget per API consumer.
// Counters live in UTC day windows; the HTTP layer checks the budget
// before routing and answers 429 with Retry-After when it is spent.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DayLayout formats a timestamp into its UTC day window key.
const DayLayout = "2006-01-02"

// DayKey returns the day window key for a timestamp.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Decision is the outcome of a quota check.
type Decision struct {
	// Allowed reports whether the request fits the day's budget.
	Allowed bool

	// Limit is the configured daily request budget.
	Limit int

	// Used counts requests recorded today, including this one.
	Used int

	// Remaining is how many requests are left today.
	Remaining int

	// ResetAt is when the current day window rolls over (next UTC
	// midnight).
	ResetAt time.Time
}

// Store persists per-consumer request counters per UTC day window.
// Implementations must be safe for concurrent use.
type Store interface {
	// Increment adds one request to the counter for key in the given
	// day window and returns the updated count.
	Increment(ctx context.Context, key, day string) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// Tracker checks requests against the daily budget.
type Tracker struct {
	store  Store
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a quota tracker. A non-positive limit disables the
// budget: every request is allowed and nothing is counted.
func NewTracker(store Store, limit int) *Tracker {
	return &Tracker{
		store:  store,
		limit:  limit,
		logger: slog.Default().With("component", "quota"),
		now:    time.Now,
	}
}

// Allow records one request for key and reports whether it fits the
// day's budget. Counting and checking happen in a single store update,
// so concurrent requests cannot slip past the limit.
func (t *Tracker) Allow(ctx context.Context, key string) (Decision, error) {
	if t.limit <= 0 {
		return Decision{Allowed: true}, nil
	}
	if key == "" {
		return Decision{}, fmt.Errorf("quota key is empty")
	}

	now := t.now().UTC()

	used, err := t.store.Increment(ctx, key, DayKey(now))
	if err != nil {
		return Decision{}, fmt.Errorf("quota increment: %w", err)
	}

	decision := Decision{
		Allowed:   used <= t.limit,
		Limit:     t.limit,
		Used:      used,
		Remaining: remaining(t.limit, used),
		ResetAt:   now.Truncate(24 * time.Hour).Add(24 * time.Hour),
	}

	if !decision.Allowed {
		t.logger.Warn("daily quota exceeded",
			"key", key,
			"used", used,
			"limit", t.limit,
			"reset_at", decision.ResetAt,
		)
	}

	return decision, nil
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
