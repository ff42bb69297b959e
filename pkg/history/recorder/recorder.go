// Package recorder turns router reports into persisted history records
// without blocking the request path.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hunterhq/relay/pkg/history"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/routing"
)

// Config contains configuration for the history recorder.
type Config struct {
	// BufferSize is the capacity of the async record queue. Records are
	// dropped when the queue is full.
	// Default: 1000
	BufferSize int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		BufferSize:   1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder persists an audit record for every completed router operation.
// It implements routing.Observer and writes asynchronously so a slow or
// failing storage backend never delays request handling.
type Recorder struct {
	storage    history.Storage
	config     *Config
	recordChan chan *history.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	dropped    atomic.Int64
	logger     *slog.Logger
}

// NewRecorder creates a history recorder backed by the provided storage
// and starts its write worker.
func NewRecorder(storage history.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *history.Record, config.BufferSize),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
	}

	// Start background worker to drain channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Info("history recorder initialized",
		"buffer_size", config.BufferSize,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// ObserveGenerate implements routing.Observer. The record is enqueued for
// async writing; when the queue is full the record is dropped and counted
// rather than blocking the caller.
func (r *Recorder) ObserveGenerate(report routing.Report) {
	record := newRecord(report)

	select {
	case r.recordChan <- record:
	default:
		r.dropped.Add(1)
		r.logger.Warn("history queue full, dropping record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"dropped_total", r.dropped.Load(),
		)
	}
}

// Dropped returns the number of records dropped because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close gracefully shuts down the recorder by draining the async queue and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down history recorder")

		close(r.done)
		r.wg.Wait()

		if dropped := r.dropped.Load(); dropped > 0 {
			r.logger.Warn("history recorder dropped records", "dropped_total", dropped)
		}
		r.logger.Info("history recorder shut down complete")
	})
	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records from channel before exit
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Debug("history queue drained")
					return
				}
			}
		}
	}
}

// writeRecord writes a single history record to storage.
func (r *Recorder) writeRecord(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("history record stored",
		"record_id", record.ID,
		"request_id", record.RequestID,
		"status", record.Status,
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow history write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

// newRecord builds a history record from a router report.
func newRecord(report routing.Report) *history.Record {
	record := &history.Record{
		ID:                uuid.New().String(),
		Timestamp:         time.Now().UTC(),
		RequestID:         report.RequestID,
		Operation:         report.Operation,
		RequestedProvider: report.RequestedProvider,
		ActualProvider:    report.ActualProvider,
		Model:             report.Model,
		Status:            history.StatusSuccess,
		Attempts:          len(report.Attempts),
		PromptChars:       report.PromptChars,
		ResponseChars:     report.ResponseChars,
		LatencyMs:         report.Duration.Milliseconds(),
	}

	if report.Err != nil {
		record.Status = history.StatusError
		record.FailureCause = failureCause(report)
	}

	return record
}

// failureCause classifies a failed report. The last attempt carries the
// terminal backend error; reports that failed before reaching any backend
// are classified from the report error itself.
func failureCause(report routing.Report) string {
	if n := len(report.Attempts); n > 0 {
		return string(report.Attempts[n-1].Cause)
	}
	return string(providers.CauseOf(report.Err))
}
