package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultRetentionDays is how long completed sessions are kept before
	// the cleanup job drops them.
	DefaultRetentionDays = 7
	// DefaultCleanupInterval is the default interval between cleanup runs.
	DefaultCleanupInterval = 12 * time.Hour
)

// CleanupConfig holds configuration for the cleanup job.
type CleanupConfig struct {
	RetentionDays   int
	CleanupInterval time.Duration
}

// DefaultCleanupConfig returns the default cleanup configuration.
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:   DefaultRetentionDays,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// CleanupJob periodically drops completed sessions past retention.
type CleanupJob struct {
	store  Store
	config CleanupConfig

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewCleanupJob creates a cleanup job over the given store.
func NewCleanupJob(store Store, config CleanupConfig) *CleanupJob {
	if config.RetentionDays <= 0 {
		config.RetentionDays = DefaultRetentionDays
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	return &CleanupJob{store: store, config: config}
}

// Start begins the periodic cleanup in a goroutine. It is non-blocking
// and idempotent.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})
	go j.run(ctx)
}

// Stop halts the job.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	j.running = false
	close(j.stopChan)
}

func (j *CleanupJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.config.CleanupInterval)
	defer ticker.Stop()

	// One pass at startup clears backlog from previous runs.
	j.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cleanup pass.
func (j *CleanupJob) RunOnce(ctx context.Context) {
	retention := time.Duration(j.config.RetentionDays) * 24 * time.Hour
	n, err := j.store.CleanupExpired(ctx, retention)
	if err != nil {
		slog.Error("session cleanup failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		slog.Info("session cleanup done",
			slog.Int("removed", n),
			slog.Int("retention_days", j.config.RetentionDays))
	}
}
