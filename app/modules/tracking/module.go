package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	trackingservice "github.com/soloq-club/soloq-tracker/app/modules/tracking/application"
	trackingadapters "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/adapters"
	trackinghandlers "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/handlers"
	trackingqueue "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/queue"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	trackingrouter "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/router"
	"github.com/soloq-club/soloq-tracker/app/shared/observability"
	"github.com/soloq-club/soloq-tracker/config"
	"github.com/uptrace/bun"
)

// Module represents the tracking module.
type Module struct {
	Service    trackingservice.Service
	Repository trackingdb.Repository
	Queue      trackingqueue.QueueService
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// Deps are the collaborators the tracking module borrows from the rest of the app.
type Deps struct {
	DB            *bun.DB
	Challenges    challengedb.Repository
	Authorizer    trackingadapters.Authorizer
	Riot          trackingservice.RankSource
	Publisher     message.Publisher
	Subscriber    message.Subscriber
	MessageRouter *message.Router
	HTTPRouter    chi.Router
	RequireUser   func(http.Handler) http.Handler
}

// NewTrackingModule creates and initializes a new tracking module.
func NewTrackingModule(ctx context.Context, cfg *config.Config, obs observability.Observability, deps Deps) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "tracking"))
	tracer := obs.Tracer

	logger.InfoContext(ctx, "tracking.NewTrackingModule initializing")

	// 1. Initialize Repository
	repo := trackingdb.NewRepository(deps.DB)

	// 2. Initialize Service
	source := trackingadapters.NewChallengeSource(deps.Authorizer, deps.Challenges)
	service := trackingservice.NewTrackingService(
		repo, source, deps.Riot, deps.Publisher, logger, obs.Metrics, tracer,
		trackingservice.WithMatchWindow(cfg.Sync.MatchWindow),
	)

	// 3. Initialize Handlers
	handlers := trackinghandlers.NewTrackingHandlers(service, cfg.Sync.CronSecret, logger, tracer)

	// 4. Register HTTP routes and event handlers
	if deps.HTTPRouter != nil {
		trackingrouter.RegisterHTTP(deps.HTTPRouter, handlers, deps.RequireUser)
	}
	if deps.MessageRouter != nil {
		eventRouter := trackingrouter.NewTrackingRouter(logger, deps.MessageRouter, deps.Subscriber, tracer)
		if err := eventRouter.Configure(ctx, handlers); err != nil {
			return nil, fmt.Errorf("failed to configure tracking router: %w", err)
		}
	}

	m := &Module{
		Service:    service,
		Repository: repo,
		logger:     logger,
	}

	// 5. Initialize the periodic sync queue
	if cfg.Sync.Enabled {
		queue, err := trackingqueue.NewService(ctx, trackingqueue.Config{
			DSN:          cfg.Postgres.DSN,
			SyncInterval: cfg.Sync.Interval,
		}, service, logger, obs.Metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracking queue: %w", err)
		}
		m.Queue = queue
	}

	return m, nil
}

// Run starts the tracking module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting tracking module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start tracking queue", slog.Any("error", err))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Tracking module goroutine stopped")
}

// Close shuts down the tracking module.
func (m *Module) Close() error {
	m.logger.Info("Stopping tracking module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.Queue != nil {
		if err := m.Queue.Stop(context.Background()); err != nil {
			return fmt.Errorf("error stopping tracking queue: %w", err)
		}
	}
	m.logger.Info("Tracking module stopped")
	return nil
}
