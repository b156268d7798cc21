package trackingqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/soloq-club/soloq-tracker/app/shared/metrics"
)

const (
	queueName      = "tracking"
	componentName  = "river"
	maxSyncWorkers = 1
)

// QueueService runs the periodic tracking jobs.
type QueueService interface {
	// TriggerSync enqueues an immediate sync pass.
	TriggerSync(ctx context.Context) error
	// HealthCheck verifies the queue database is reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service schedules tracking work with River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// Config controls the periodic sync.
type Config struct {
	DSN          string
	SyncInterval time.Duration
	// SyncTimeout caps one sync pass. Defaults to the interval.
	SyncTimeout time.Duration
}

// NewService creates a River-backed queue running SyncActiveChallengesJob every SyncInterval.
func NewService(ctx context.Context, cfg Config, syncer Syncer, logger *slog.Logger, opMetrics metrics.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_tracking_queue_service"),
		slog.String("component", "river_queue"),
	)
	if opMetrics == nil {
		opMetrics = metrics.NewNoop()
	}

	start := time.Now()
	opMetrics.RecordOperationAttempt(ctx, "initialize_service", componentName)

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		opMetrics.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		opMetrics.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.Any("error", err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	timeout := cfg.SyncTimeout
	if timeout <= 0 {
		timeout = cfg.SyncInterval
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSyncWorker(syncer, ctxLogger, timeout))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			queueName: {MaxWorkers: maxSyncWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(cfg.SyncInterval),
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	opMetrics.RecordOperationSuccess(ctx, "initialize_service", componentName)
	opMetrics.RecordOperationDuration(ctx, "initialize_service", componentName, time.Since(start))
	ctxLogger.Info("Tracking queue service initialized", slog.Duration("sync_interval", cfg.SyncInterval))

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: opMetrics,
	}, nil
}

func periodicJobs(interval time.Duration) []*river.PeriodicJob {
	if interval <= 0 {
		return nil
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return SyncActiveChallengesJob{}, syncInsertOpts()
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

func syncInsertOpts() *river.InsertOpts {
	return &river.InsertOpts{
		Queue: queueName,
		UniqueOpts: river.UniqueOpts{
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", componentName)
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", componentName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", componentName)
	s.logger.Info("Tracking queue service started")
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", componentName)
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", componentName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", componentName)
	s.logger.Info("Tracking queue service stopped")
	return nil
}

func (s *Service) TriggerSync(ctx context.Context) error {
	res, err := s.client.Insert(ctx, SyncActiveChallengesJob{}, syncInsertOpts())
	if err != nil {
		return fmt.Errorf("failed to enqueue sync: %w", err)
	}
	if res.UniqueSkippedAsDuplicate {
		s.logger.InfoContext(ctx, "Sync already queued", slog.Int64("job_id", res.Job.ID))
	}
	return nil
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue database unreachable: %w", err)
	}
	return nil
}
