package storage

import (
	"context"
	"sync"

	"hunterhq/relay/pkg/history"
)

// DefaultMaxRecords is the memory backend's default capacity.
const DefaultMaxRecords = 10000

// MemoryStorage implements the Storage interface with a fixed-capacity
// ring buffer. When the buffer is full the oldest record is evicted.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*history.Record
	head    int
	count   int
}

// NewMemoryStorage creates an in-memory storage backend holding at most
// maxRecords entries. Non-positive values use DefaultMaxRecords.
func NewMemoryStorage(maxRecords int) *MemoryStorage {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &MemoryStorage{
		records: make([]*history.Record, maxRecords),
	}
}

// Store persists a history record, evicting the oldest when full.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to guard against caller mutation
	recordCopy := *record

	if s.count < len(s.records) {
		s.records[(s.head+s.count)%len(s.records)] = &recordCopy
		s.count++
		return nil
	}

	s.records[s.head] = &recordCopy
	s.head = (s.head + 1) % len(s.records)

	return nil
}

// Query retrieves history records matching the query filters, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := 100
	if query.Limit > 0 {
		limit = query.Limit
	}

	results := []*history.Record{}
	skipped := 0

	// Records are stored in arrival order; walk newest to oldest.
	for i := s.count - 1; i >= 0; i-- {
		record := s.records[(s.head+i)%len(s.records)]
		if !matchesQuery(record, query) {
			continue
		}

		if skipped < query.Offset {
			skipped++
			continue
		}
		if len(results) >= limit {
			break
		}

		recordCopy := *record
		results = append(results, &recordCopy)
	}

	return results, nil
}

// Count returns the number of history records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for i := 0; i < s.count; i++ {
		if matchesQuery(s.records[(s.head+i)%len(s.records)], query) {
			count++
		}
	}

	return count, nil
}

// Delete removes history records matching the query filters.
// Returns the number of records deleted.
func (s *MemoryStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*history.Record, len(s.records))
	keptCount := 0
	var deleted int64

	for i := 0; i < s.count; i++ {
		record := s.records[(s.head+i)%len(s.records)]
		if matchesQuery(record, query) {
			deleted++
			continue
		}
		kept[keptCount] = record
		keptCount++
	}

	s.records = kept
	s.head = 0
	s.count = keptCount

	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*history.Record, len(s.records))
	s.head = 0
	s.count = 0

	return nil
}

// Size returns the number of stored records (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count
}

// matchesQuery checks if a record matches the query filters.
func matchesQuery(record *history.Record, query *history.Query) bool {
	if query.Since != nil && record.Timestamp.Before(*query.Since) {
		return false
	}
	if query.Until != nil && record.Timestamp.After(*query.Until) {
		return false
	}

	if query.Operation != "" && record.Operation != query.Operation {
		return false
	}
	if query.Provider != "" && record.ActualProvider != query.Provider {
		return false
	}
	if query.Status != "" && record.Status != query.Status {
		return false
	}

	return true
}
