package quota

import (
	"context"
	"sync"
)

// MemoryStore keeps counters for the current day window in memory.
// Counts are lost on restart and do not coordinate across processes;
// it suits single-instance deployments and tests.
type MemoryStore struct {
	mu     sync.Mutex
	day    string
	counts map[string]int
}

// NewMemoryStore creates an empty in-memory quota store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts: make(map[string]int),
	}
}

// Increment adds one request for key in the given day window. Counters
// from earlier windows are discarded as soon as a new day starts.
func (s *MemoryStore) Increment(ctx context.Context, key, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.day != day {
		s.day = day
		s.counts = make(map[string]int)
	}

	s.counts[key]++
	return s.counts[key], nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
