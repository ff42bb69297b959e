package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hunterhq/relay/pkg/history"
)

// newTestSQLite creates a SQLite storage backed by a temp file.
func newTestSQLite(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	config := DefaultSQLiteConfig()
	config.Path = path

	store, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, path
}

func TestSQLiteStorage_StoreAndQuery(t *testing.T) {
	store, _ := newTestSQLite(t)

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.Store(ctx, testRecord(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	records, err := store.Query(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Newest first
	if records[0].ID != "rec-2" {
		t.Errorf("Expected newest record first, got %s", records[0].ID)
	}

	got := records[2]
	if got.ID != "rec-0" {
		t.Errorf("Expected ID 'rec-0', got %s", got.ID)
	}
	if got.RequestID != "req-0" {
		t.Errorf("Expected RequestID 'req-0', got %s", got.RequestID)
	}
	if got.Operation != "sentiment" {
		t.Errorf("Expected Operation 'sentiment', got %s", got.Operation)
	}
	if got.ActualProvider != "openai" {
		t.Errorf("Expected ActualProvider 'openai', got %s", got.ActualProvider)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Expected Model 'gpt-4o-mini', got %s", got.Model)
	}
	if got.Status != history.StatusSuccess {
		t.Errorf("Expected status success, got %s", got.Status)
	}
	if got.PromptChars != 42 || got.ResponseChars != 10 {
		t.Errorf("Unexpected sizing: prompt=%d response=%d", got.PromptChars, got.ResponseChars)
	}
	if got.LatencyMs != 120 {
		t.Errorf("Expected LatencyMs 120, got %d", got.LatencyMs)
	}
	if !got.Timestamp.Equal(base) {
		t.Errorf("Expected timestamp %v, got %v", base, got.Timestamp)
	}
}

func TestSQLiteStorage_NullableFields(t *testing.T) {
	store, _ := newTestSQLite(t)

	ctx := context.Background()

	failed := testRecord(0, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	failed.ActualProvider = ""
	failed.Model = ""
	failed.Status = history.StatusError
	failed.FailureCause = "auth_error"
	failed.Attempts = 3

	if err := store.Store(ctx, failed); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	records, err := store.Query(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.ActualProvider != "" {
		t.Errorf("Expected empty ActualProvider, got %q", got.ActualProvider)
	}
	if got.Model != "" {
		t.Errorf("Expected empty Model, got %q", got.Model)
	}
	if got.FailureCause != "auth_error" {
		t.Errorf("Expected FailureCause 'auth_error', got %q", got.FailureCause)
	}
	if got.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", got.Attempts)
	}
}

func TestSQLiteStorage_QueryFilters(t *testing.T) {
	store, _ := newTestSQLite(t)

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	success := testRecord(0, base)
	failed := testRecord(1, base.Add(time.Minute))
	failed.Operation = "intent"
	failed.Status = history.StatusError
	failed.FailureCause = "rate_limited"
	other := testRecord(2, base.Add(2*time.Minute))
	other.ActualProvider = "claude"

	for _, r := range []*history.Record{success, failed, other} {
		if err := store.Store(ctx, r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		query *history.Query
		want  int64
	}{
		{"all", &history.Query{}, 3},
		{"by operation", &history.Query{Operation: "intent"}, 1},
		{"by provider", &history.Query{Provider: "claude"}, 1},
		{"by status", &history.Query{Status: history.StatusError}, 1},
		{"since", &history.Query{Since: timePtr(base.Add(time.Minute))}, 2},
		{"until", &history.Query{Until: timePtr(base.Add(time.Minute))}, 2},
		{"combined", &history.Query{Status: history.StatusSuccess, Provider: "openai"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := store.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if count != tt.want {
				t.Errorf("Expected count %d, got %d", tt.want, count)
			}

			records, err := store.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if int64(len(records)) != tt.want {
				t.Errorf("Expected %d records, got %d", tt.want, len(records))
			}
		})
	}
}

func TestSQLiteStorage_QueryPagination(t *testing.T) {
	store, _ := newTestSQLite(t)

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := store.Store(ctx, testRecord(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	records, err := store.Query(ctx, &history.Query{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	// Newest first, offset skips the newest
	if records[0].ID != "rec-3" || records[1].ID != "rec-2" {
		t.Errorf("Unexpected page: %s, %s", records[0].ID, records[1].ID)
	}
}

func TestSQLiteStorage_Delete(t *testing.T) {
	store, _ := newTestSQLite(t)

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		if err := store.Store(ctx, testRecord(i, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	cutoff := base.Add(time.Hour)
	deleted, err := store.Delete(ctx, &history.Query{Until: &cutoff})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	count, err := store.Count(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 remaining, got %d", count)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	store, path := newTestSQLite(t)

	ctx := context.Background()
	if err := store.Store(ctx, testRecord(0, time.Now().UTC())); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Reopening an existing database must pass the schema version check
	// and keep existing records.
	config := DefaultSQLiteConfig()
	config.Path = path
	reopened, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record after reopen, got %d", count)
	}
}

func TestSQLiteStorage_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	config := DefaultSQLiteConfig()
	config.Path = path

	store, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	defer store.Close()

	if err := store.Store(context.Background(), testRecord(0, time.Now().UTC())); err != nil {
		t.Errorf("Store() failed: %v", err)
	}
}
