package trackingservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/metrics"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName        = "TrackingService"
	defaultMatchWindow = 100
)

// TrackingService implements the Service interface.
type TrackingService struct {
	repo        trackingdb.Repository
	challenges  ChallengeSource
	riot        RankSource
	publisher   message.Publisher
	logger      *slog.Logger
	metrics     metrics.OperationMetrics
	tracer      trace.Tracer
	matchWindow int
	now         func() time.Time
}

// Option configures a TrackingService.
type Option func(*TrackingService)

// WithMatchWindow bounds how many recent match IDs are fetched per player.
func WithMatchWindow(n int) Option {
	return func(s *TrackingService) {
		if n > 0 {
			s.matchWindow = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TrackingService) { s.now = now }
}

// NewTrackingService creates a new TrackingService. A nil publisher disables event publishing.
func NewTrackingService(
	repo trackingdb.Repository,
	challenges ChallengeSource,
	riot RankSource,
	publisher message.Publisher,
	logger *slog.Logger,
	opMetrics metrics.OperationMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *TrackingService {
	if logger == nil {
		logger = slog.Default()
	}
	if opMetrics == nil {
		opMetrics = metrics.NewNoop()
	}
	s := &TrackingService{
		repo:        repo,
		challenges:  challenges,
		riot:        riot,
		publisher:   publisher,
		logger:      logger,
		metrics:     opMetrics,
		tracer:      tracer,
		matchWindow: defaultMatchWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *TrackingService,
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
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		return result, nil
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

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
