// Package retention prunes old history records on a cron schedule.
package retention

import (
	"context"
	"log/slog"
	"time"

	"hunterhq/relay/pkg/history"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// Days is the number of days to retain history records.
	// -1 means keep records forever (no pruning).
	Days int

	// Schedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	Schedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		Days:     90,
		Schedule: "0 3 * * *",
	}
}

// Pruner enforces the retention window on history records.
type Pruner struct {
	storage   history.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage history.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "history.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes history records older than the retention window.
// Returns the number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.Days < 0 {
		p.logger.Debug("retention disabled, keeping records forever")
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.Days)

	deleted, err := p.storage.Delete(ctx, &history.Query{Until: &cutoff})
	if err != nil {
		return 0, history.NewRetentionError(p.config.Days, err)
	}

	if deleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.Days,
			"cutoff_time", cutoff,
		)
	} else {
		p.logger.Info("history pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
			"cutoff_time", cutoff,
		)
	}

	return deleted, nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
