package trackingqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	trackingservice "github.com/soloq-club/soloq-tracker/app/modules/tracking/application"
)

// Syncer runs a sync pass.
type Syncer interface {
	SyncActiveChallenges(ctx context.Context) (*trackingservice.SyncReport, error)
}

// SyncWorker executes SyncActiveChallengesJob.
type SyncWorker struct {
	river.WorkerDefaults[SyncActiveChallengesJob]
	syncer  Syncer
	logger  *slog.Logger
	timeout time.Duration
}

// NewSyncWorker creates a SyncWorker. A job running longer than timeout is cancelled.
func NewSyncWorker(syncer Syncer, logger *slog.Logger, timeout time.Duration) *SyncWorker {
	return &SyncWorker{syncer: syncer, logger: logger, timeout: timeout}
}

// Timeout overrides River's default job timeout.
func (w *SyncWorker) Timeout(*river.Job[SyncActiveChallengesJob]) time.Duration {
	return w.timeout
}

func (w *SyncWorker) Work(ctx context.Context, _ *river.Job[SyncActiveChallengesJob]) error {
	report, err := w.syncer.SyncActiveChallenges(ctx)
	if err != nil {
		return fmt.Errorf("sync active challenges: %w", err)
	}
	w.logger.InfoContext(ctx, "Scheduled sync completed",
		slog.Int("challenges", report.Challenges),
		slog.Int("inserted", report.Inserted),
		slog.Int("matches", report.Matches),
		slog.Int("errors", report.Errors),
	)
	return nil
}
