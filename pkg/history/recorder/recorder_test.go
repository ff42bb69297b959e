package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"hunterhq/relay/pkg/history"
	"hunterhq/relay/pkg/history/storage"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/routing"
)

func successReport() routing.Report {
	return routing.Report{
		Operation:         "sentiment",
		RequestID:         "req-123",
		RequestedProvider: "openai",
		ActualProvider:    "openai",
		Model:             "gpt-4o-mini",
		Duration:          120 * time.Millisecond,
		PromptChars:       42,
		ResponseChars:     10,
	}
}

func failedReport() routing.Report {
	attempts := []routing.Attempt{
		{Provider: "openai", Cause: providers.CauseAuth, Err: errors.New("401")},
		{Provider: "ollama", Cause: providers.CauseTransport, Err: errors.New("connection refused")},
	}
	return routing.Report{
		Operation:         "generate",
		RequestID:         "req-456",
		RequestedProvider: "openai",
		Attempts:          attempts,
		Err:               &routing.AllProvidersFailedError{Attempts: attempts},
		Duration:          2 * time.Second,
		PromptChars:       42,
	}
}

func TestRecorder_ObserveGenerate_Success(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	rec := NewRecorder(store, nil)

	rec.ObserveGenerate(successReport())

	// Close drains the queue
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	ctx := context.Background()
	records, err := store.Query(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.ID == "" {
		t.Error("Expected generated record ID")
	}
	if got.Timestamp.IsZero() {
		t.Error("Expected non-zero timestamp")
	}
	if got.RequestID != "req-123" {
		t.Errorf("Expected RequestID 'req-123', got %s", got.RequestID)
	}
	if got.Operation != "sentiment" {
		t.Errorf("Expected Operation 'sentiment', got %s", got.Operation)
	}
	if got.Status != history.StatusSuccess {
		t.Errorf("Expected status success, got %s", got.Status)
	}
	if got.FailureCause != "" {
		t.Errorf("Expected empty FailureCause, got %s", got.FailureCause)
	}
	if got.ActualProvider != "openai" {
		t.Errorf("Expected ActualProvider 'openai', got %s", got.ActualProvider)
	}
	if got.Attempts != 0 {
		t.Errorf("Expected 0 attempts, got %d", got.Attempts)
	}
	if got.LatencyMs != 120 {
		t.Errorf("Expected LatencyMs 120, got %d", got.LatencyMs)
	}
	if got.PromptChars != 42 || got.ResponseChars != 10 {
		t.Errorf("Unexpected sizing: prompt=%d response=%d", got.PromptChars, got.ResponseChars)
	}
}

func TestRecorder_ObserveGenerate_Failure(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	rec := NewRecorder(store, nil)

	rec.ObserveGenerate(failedReport())

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	records, err := store.Query(context.Background(), &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Status != history.StatusError {
		t.Errorf("Expected status error, got %s", got.Status)
	}
	if got.ActualProvider != "" {
		t.Errorf("Expected empty ActualProvider, got %s", got.ActualProvider)
	}
	if got.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", got.Attempts)
	}
	// The last attempt carries the terminal cause
	if got.FailureCause != string(providers.CauseTransport) {
		t.Errorf("Expected FailureCause %q, got %q", providers.CauseTransport, got.FailureCause)
	}
}

func TestRecorder_FailureCause_NoAttempts(t *testing.T) {
	store := storage.NewMemoryStorage(10)
	rec := NewRecorder(store, nil)

	// A report that failed before reaching any backend
	report := routing.Report{
		Operation: "generate",
		Err:       context.DeadlineExceeded,
		Duration:  time.Second,
	}
	rec.ObserveGenerate(report)

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	records, err := store.Query(context.Background(), &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].FailureCause != string(providers.CauseTimeout) {
		t.Errorf("Expected FailureCause %q, got %q", providers.CauseTimeout, records[0].FailureCause)
	}
}

// blockingStorage parks writes until release is closed, so tests can fill
// the recorder queue deterministically.
type blockingStorage struct {
	*storage.MemoryStorage
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStorage) Store(ctx context.Context, record *history.Record) error {
	b.entered <- struct{}{}
	<-b.release
	return b.MemoryStorage.Store(ctx, record)
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	blocking := &blockingStorage{
		MemoryStorage: storage.NewMemoryStorage(10),
		entered:       make(chan struct{}, 8),
		release:       make(chan struct{}),
	}
	rec := NewRecorder(blocking, &Config{BufferSize: 1, WriteTimeout: time.Second})

	// First record: picked up by the worker, which blocks inside Store.
	rec.ObserveGenerate(successReport())
	<-blocking.entered

	// Second record fills the queue; third has nowhere to go.
	rec.ObserveGenerate(successReport())
	rec.ObserveGenerate(successReport())

	if got := rec.Dropped(); got != 1 {
		t.Errorf("Expected 1 dropped record, got %d", got)
	}

	close(blocking.release)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Both undropped records end up in storage.
	if size := blocking.MemoryStorage.Size(); size != 2 {
		t.Errorf("Expected 2 stored records, got %d", size)
	}
}

func TestRecorder_CloseIdempotent(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStorage(10), nil)

	if err := rec.Close(); err != nil {
		t.Fatalf("First Close() failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Second Close() failed: %v", err)
	}
}

func TestRecorder_StorageErrorDoesNotBlock(t *testing.T) {
	rec := NewRecorder(&failingStorage{}, nil)

	// Must not panic or block even when every write fails.
	for i := 0; i < 10; i++ {
		rec.ObserveGenerate(successReport())
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
}

type failingStorage struct{}

func (f *failingStorage) Store(ctx context.Context, record *history.Record) error {
	return errors.New("disk full")
}

func (f *failingStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	return nil, nil
}

func (f *failingStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	return 0, nil
}

func (f *failingStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	return 0, nil
}

func (f *failingStorage) Close() error { return nil }
