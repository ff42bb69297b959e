package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// AtomicStats implements thread-safe router statistics using atomic
// operations. All counters are updated atomically for lock-free performance.
type AtomicStats struct {
	// totalRequests is the total number of generation requests processed
	totalRequests atomic.Int64

	// requestsPerProvider tracks successful generations per backend
	// Uses sync.Map for thread-safe concurrent access
	requestsPerProvider sync.Map // map[string]*atomic.Int64

	// fallbackCount is the number of requests served by a backend other than
	// the one attempted first
	fallbackCount atomic.Int64

	// substitutionCount is the number of requests whose requested backend was
	// not registered and was silently replaced by the first registered one
	substitutionCount atomic.Int64

	// errors is the total number of requests that failed outright
	errors atomic.Int64

	// lastResetTime is when statistics were last reset
	lastResetTime time.Time

	// mu protects lastResetTime
	mu sync.RWMutex
}

// NewAtomicStats creates a new atomic router statistics tracker.
func NewAtomicStats() *AtomicStats {
	return &AtomicStats{
		lastResetTime: time.Now(),
	}
}

// IncrementTotal increments the total request counter.
func (s *AtomicStats) IncrementTotal() {
	s.totalRequests.Add(1)
}

// IncrementProvider increments the success counter for a specific backend.
func (s *AtomicStats) IncrementProvider(providerName string) {
	val, _ := s.requestsPerProvider.LoadOrStore(providerName, &atomic.Int64{})
	counter := val.(*atomic.Int64)
	counter.Add(1)
}

// IncrementFallback increments the fallback counter.
func (s *AtomicStats) IncrementFallback() {
	s.fallbackCount.Add(1)
}

// IncrementSubstitution increments the substitution counter.
func (s *AtomicStats) IncrementSubstitution() {
	s.substitutionCount.Add(1)
}

// IncrementErrors increments the error counter.
func (s *AtomicStats) IncrementErrors() {
	s.errors.Add(1)
}

// Snapshot returns a point-in-time snapshot of the statistics.
// The returned Stats struct is safe to read without locks.
func (s *AtomicStats) Snapshot() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providerRequests := make(map[string]int64)
	s.requestsPerProvider.Range(func(key, value interface{}) bool {
		providerRequests[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return &Stats{
		TotalRequests:       s.totalRequests.Load(),
		RequestsPerProvider: providerRequests,
		FallbackCount:       s.fallbackCount.Load(),
		SubstitutionCount:   s.substitutionCount.Load(),
		Errors:              s.errors.Load(),
		LastResetTime:       s.lastResetTime,
	}
}

// Reset resets all statistics to zero.
func (s *AtomicStats) Reset() {
	s.totalRequests.Store(0)
	s.fallbackCount.Store(0)
	s.substitutionCount.Store(0)
	s.errors.Store(0)

	s.requestsPerProvider.Range(func(key, value interface{}) bool {
		s.requestsPerProvider.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}

// Stats contains a snapshot of router statistics.
type Stats struct {
	// TotalRequests is the total number of generation requests processed.
	TotalRequests int64

	// RequestsPerProvider tracks successful generations per backend.
	// Key: provider name, Value: request count
	RequestsPerProvider map[string]int64

	// FallbackCount is the number of requests served by a backend other than
	// the one attempted first.
	FallbackCount int64

	// SubstitutionCount is the number of requests whose requested backend was
	// silently replaced by the first registered one.
	SubstitutionCount int64

	// Errors is the total number of requests that failed outright.
	Errors int64

	// LastResetTime is when statistics were last reset.
	LastResetTime time.Time
}
