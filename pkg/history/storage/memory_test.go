package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hunterhq/relay/pkg/history"
)

// testRecord creates a history record with the given suffix and timestamp.
func testRecord(n int, ts time.Time) *history.Record {
	return &history.Record{
		ID:                fmt.Sprintf("rec-%d", n),
		Timestamp:         ts,
		RequestID:         fmt.Sprintf("req-%d", n),
		Operation:         "sentiment",
		RequestedProvider: "openai",
		ActualProvider:    "openai",
		Model:             "gpt-4o-mini",
		Status:            history.StatusSuccess,
		Attempts:          0,
		PromptChars:       42,
		ResponseChars:     10,
		LatencyMs:         120,
	}
}

func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	store := NewMemoryStorage(10)
	defer store.Close()

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
	if records[2].ID != "rec-0" {
		t.Errorf("Expected oldest record last, got %s", records[2].ID)
	}
}

func TestMemoryStorage_RingEviction(t *testing.T) {
	store := NewMemoryStorage(3)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := store.Store(ctx, testRecord(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	if store.Size() != 3 {
		t.Fatalf("Expected 3 records after eviction, got %d", store.Size())
	}

	records, err := store.Query(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	// Oldest two evicted, newest first
	ids := []string{}
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	want := []string{"rec-4", "rec-3", "rec-2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected record %s at position %d, got %s", want[i], i, ids[i])
		}
	}
}

func TestMemoryStorage_QueryFilters(t *testing.T) {
	store := NewMemoryStorage(10)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	success := testRecord(0, base)
	failed := testRecord(1, base.Add(time.Minute))
	failed.Operation = "intent"
	failed.ActualProvider = ""
	failed.Status = history.StatusError
	failed.FailureCause = "rate_limited"
	failed.Attempts = 2
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
		want  int
	}{
		{"all", &history.Query{}, 3},
		{"by operation", &history.Query{Operation: "intent"}, 1},
		{"by provider", &history.Query{Provider: "claude"}, 1},
		{"by status success", &history.Query{Status: history.StatusSuccess}, 2},
		{"by status error", &history.Query{Status: history.StatusError}, 1},
		{"since excludes older", &history.Query{Since: timePtr(base.Add(time.Minute))}, 2},
		{"until excludes newer", &history.Query{Until: timePtr(base.Add(time.Minute))}, 2},
		{"limit", &history.Query{Limit: 2}, 2},
		{"offset", &history.Query{Offset: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("Expected %d records, got %d", tt.want, len(records))
			}

			count, err := store.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			// Count ignores pagination
			if tt.query.Limit == 0 && tt.query.Offset == 0 && count != int64(tt.want) {
				t.Errorf("Expected count %d, got %d", tt.want, count)
			}
		})
	}
}

func TestMemoryStorage_Delete(t *testing.T) {
	store := NewMemoryStorage(10)
	defer store.Close()

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
	if store.Size() != 2 {
		t.Errorf("Expected 2 remaining, got %d", store.Size())
	}

	// Ring still accepts new records after a delete
	if err := store.Store(ctx, testRecord(9, base.Add(9*time.Hour))); err != nil {
		t.Fatalf("Store() after delete failed: %v", err)
	}
	if store.Size() != 3 {
		t.Errorf("Expected 3 records after store, got %d", store.Size())
	}
}

func TestMemoryStorage_CopyOnStore(t *testing.T) {
	store := NewMemoryStorage(10)
	defer store.Close()

	ctx := context.Background()
	record := testRecord(0, time.Now().UTC())

	if err := store.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	// Mutating the original must not affect the stored copy
	record.Status = history.StatusError

	records, err := store.Query(ctx, &history.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if records[0].Status != history.StatusSuccess {
		t.Errorf("Stored record mutated, status = %s", records[0].Status)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
