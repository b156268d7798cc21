package leaderboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	leaderboardadapters "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/infrastructure/adapters"
	leaderboardhandlers "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/infrastructure/router"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/observability"
)

// Module represents the leaderboard module. It owns no tables and reads
// through the challenge and tracking repositories.
type Module struct {
	Service    leaderboardservice.Service
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewLeaderboardModule creates a new instance of the leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	obs observability.Observability,
	challenges challengedb.Repository,
	tracking trackingdb.Repository,
	httpRouter chi.Router,
	opts ...leaderboardservice.Option,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "leaderboard"))
	tracer := obs.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	service := leaderboardservice.NewLeaderboardService(
		leaderboardadapters.NewChallengeReaderAdapter(challenges),
		leaderboardadapters.NewHistoryReaderAdapter(tracking),
		logger,
		obs.Metrics,
		tracer,
		opts...,
	)

	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)
	if httpRouter != nil {
		leaderboardrouter.Register(httpRouter, handlers)
	}

	return &Module{
		Service: service,
		logger:  logger,
	}, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module.
func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.logger.Info("Leaderboard module stopped")
	return nil
}
