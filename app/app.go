package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soloq-club/soloq-tracker/app/events"
	"github.com/soloq-club/soloq-tracker/app/modules/challenge"
	challengeadapters "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/adapters"
	"github.com/soloq-club/soloq-tracker/app/modules/leaderboard"
	"github.com/soloq-club/soloq-tracker/app/modules/tracking"
	"github.com/soloq-club/soloq-tracker/app/shared/httpx"
	"github.com/soloq-club/soloq-tracker/app/shared/observability"
	"github.com/soloq-club/soloq-tracker/config"
	"github.com/soloq-club/soloq-tracker/pkg/eventbus"
	"github.com/soloq-club/soloq-tracker/pkg/jwt"
	"github.com/soloq-club/soloq-tracker/pkg/ratelimit"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	appName         = "soloq-tracker"
	shutdownTimeout = 10 * time.Second
)

// App wires the modules to the shared infrastructure.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router

	ChallengeModule   *challenge.Module
	TrackingModule    *tracking.Module
	LeaderboardModule *leaderboard.Module

	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewApp builds every module. Nothing runs until Run is called.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.New(cfg)
	if err != nil {
		return nil, err
	}
	logger := obs.Logger

	app := &App{
		Config:        cfg,
		Observability: obs,
		logger:        logger,
	}

	app.DB = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))), pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		app.DB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger, appName)
	if err != nil {
		app.DB.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus
	if err := eventbus.InitializeStreams(ctx, bus, events.StreamSubjects, logger); err != nil {
		app.closeInfra()
		return nil, err
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3, InitialInterval: time.Second, Logger: watermill.NewSlogLogger(logger)}.Middleware,
	)
	app.Router = router

	app.HTTPRouter = newHTTPRouter(cfg, obs)
	requireUser := httpx.RequireUser(jwt.NewService(cfg.JWT.Secret))

	riot := riotclient.New(cfg.Riot.APIKey, cfg.Riot.Timeout,
		riotclient.WithLimiter(ratelimit.NewKeyedLimiter(cfg.Riot.MinInterval, cfg.Riot.LimiterCapacity)),
	)

	if err := app.initializeModules(ctx, riot, requireUser); err != nil {
		app.closeInfra()
		return nil, err
	}

	app.HTTPRouter.Get("/healthz", app.handleHealth)
	return app, nil
}

func (app *App) initializeModules(ctx context.Context, riot *riotclient.Client, requireUser func(http.Handler) http.Handler) error {
	challengeModule, err := challenge.NewChallengeModule(
		ctx, app.Observability, app.DB,
		challengeadapters.NewRiotIdentityResolver(riot),
		app.HTTPRouter, requireUser,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize challenge module: %w", err)
	}
	app.ChallengeModule = challengeModule

	trackingModule, err := tracking.NewTrackingModule(ctx, app.Config, app.Observability, tracking.Deps{
		DB:            app.DB,
		Challenges:    challengeModule.Repository,
		Authorizer:    challengeModule.Service,
		Riot:          riot,
		Publisher:     app.EventBus,
		Subscriber:    app.EventBus,
		MessageRouter: app.Router,
		HTTPRouter:    app.HTTPRouter,
		RequireUser:   requireUser,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracking module: %w", err)
	}
	app.TrackingModule = trackingModule

	leaderboardModule, err := leaderboard.NewLeaderboardModule(
		ctx, app.Observability,
		challengeModule.Repository, trackingModule.Repository,
		app.HTTPRouter,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.LeaderboardModule = leaderboardModule
	return nil
}

func newHTTPRouter(cfg *config.Config, obs observability.Observability) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	r.Use(httpx.RateLimitMiddleware(httpx.NewIPRateLimiter(10, 30)))

	if cfg.Observability.MetricsAddress == "" {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.DB.PingContext(ctx); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}
	if app.TrackingModule.Queue != nil {
		if err := app.TrackingModule.Queue.HealthCheck(ctx); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "queue unavailable"})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run starts the modules, the message router and the HTTP listeners, and
// blocks until ctx is cancelled or a listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.wg.Add(3)
	go app.ChallengeModule.Run(ctx, &app.wg)
	go app.TrackingModule.Run(ctx, &app.wg)
	go app.LeaderboardModule.Run(ctx, &app.wg)

	errCh := make(chan error, 3)
	go func() {
		if err := app.Router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	srv := &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		app.logger.Info("Starting HTTP server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var metricsSrv *http.Server
	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		metricsSrv = &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			app.logger.Info("Starting metrics server", slog.String("addr", addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server stopped: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		app.logger.Error("Component failed", slog.Any("error", runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	cancel()
	app.wg.Wait()
	return errors.Join(runErr, app.Close())
}

// Close releases modules and infrastructure.
func (app *App) Close() error {
	var errs []error
	if app.TrackingModule != nil {
		errs = append(errs, app.TrackingModule.Close())
	}
	if app.LeaderboardModule != nil {
		errs = append(errs, app.LeaderboardModule.Close())
	}
	if app.ChallengeModule != nil {
		errs = append(errs, app.ChallengeModule.Close())
	}
	if app.Router != nil {
		errs = append(errs, app.Router.Close())
	}
	errs = append(errs, app.closeInfra())
	return errors.Join(errs...)
}

func (app *App) closeInfra() error {
	var errs []error
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
		app.EventBus = nil
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
		app.DB = nil
	}
	return errors.Join(errs...)
}
