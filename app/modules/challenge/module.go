package challenge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	challengeservice "github.com/soloq-club/soloq-tracker/app/modules/challenge/application"
	challengehandlers "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/handlers"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	challengerouter "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/router"
	"github.com/soloq-club/soloq-tracker/app/shared/observability"
	"github.com/uptrace/bun"
)

// Module represents the challenge module.
type Module struct {
	Service    challengeservice.Service
	Repository challengedb.Repository
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewChallengeModule creates and initializes a new challenge module.
func NewChallengeModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	resolver challengeservice.IdentityResolver,
	httpRouter chi.Router,
	requireUser func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "challenge"))
	tracer := obs.Tracer

	logger.InfoContext(ctx, "challenge.NewChallengeModule initializing")

	// 1. Initialize Repository
	repo := challengedb.NewRepository(db)

	// 2. Initialize Service
	service := challengeservice.NewChallengeService(repo, resolver, logger, obs.Metrics, tracer, db)

	// 3. Initialize Handlers
	handlers := challengehandlers.NewChallengeHandlers(service, logger, tracer)

	// 4. Register HTTP routes
	if httpRouter != nil {
		challengerouter.Register(httpRouter, handlers, requireUser)
	}

	return &Module{
		Service:    service,
		Repository: repo,
		logger:     logger,
	}, nil
}

// Run starts the challenge module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting challenge module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Challenge module goroutine stopped")
}

// Close shuts down the challenge module.
func (m *Module) Close() error {
	m.logger.Info("Stopping challenge module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.logger.Info("Challenge module stopped")
	return nil
}
