package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soloq-club/soloq-tracker/app/shared/metrics"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "LeaderboardService"

	// defaultFanOut bounds concurrent per-player history reads.
	defaultFanOut = 8
)

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	challenges ChallengeReader
	history    HistoryReader
	logger     *slog.Logger
	metrics    metrics.OperationMetrics
	tracer     trace.Tracer
	palette    ChartPalette
	fanOut     int
	now        func() time.Time
}

// Option customises a LeaderboardService.
type Option func(*LeaderboardService)

// WithFanOut sets the number of players read concurrently.
func WithFanOut(n int) Option {
	return func(s *LeaderboardService) {
		if n > 0 {
			s.fanOut = n
		}
	}
}

// WithPalette overrides the chart colours.
func WithPalette(p ChartPalette) Option {
	return func(s *LeaderboardService) {
		s.palette = p
	}
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	challenges ChallengeReader,
	history HistoryReader,
	logger *slog.Logger,
	opMetrics metrics.OperationMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if opMetrics == nil {
		opMetrics = metrics.NewNoop()
	}
	s := &LeaderboardService{
		challenges: challenges,
		history:    history,
		logger:     logger,
		metrics:    opMetrics,
		tracer:     tracer,
		palette:    DefaultPalette,
		fanOut:     defaultFanOut,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// unwrap turns an operation result into the (value, error) pair callers expect.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}
