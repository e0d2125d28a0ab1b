package background

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredCodeCleaner deletes expired verification-code rows
type ExpiredCodeCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// CleanupManager periodically removes expired verification codes from the
// database. Reads already filter on expires_at, so this loop is what actually
// enforces the TTL at the storage level.
type CleanupManager struct {
	codeRepo ExpiredCodeCleaner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(codeRepo ExpiredCodeCleaner, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		codeRepo: codeRepo,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup removes expired verification codes from the database
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.codeRepo.CleanupExpired(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to cleanup expired verification codes", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("expired verification code cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
