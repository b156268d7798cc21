package trackingrouter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/soloq-club/soloq-tracker/app/events"
	trackinghandlers "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/handlers"
	"github.com/soloq-club/soloq-tracker/pkg/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// RegisterHTTP mounts the tracking routes. requireUser guards manual snapshots;
// the cron route checks its own secret.
func RegisterHTTP(r chi.Router, h trackinghandlers.Handlers, requireUser func(http.Handler) http.Handler) {
	r.Get("/api/cron/sync-all-matches", h.HandleCronSync)
	r.Post("/api/cron/sync-all-matches", h.HandleCronSync)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/api/challenges/{id}/snapshot", h.HandleSnapshot)
	})
}

// TrackingRouter handles Watermill handler registration for tracking events.
type TrackingRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer
}

// NewTrackingRouter creates a new TrackingRouter.
func NewTrackingRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
) *TrackingRouter {
	return &TrackingRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		tracer:     tracer,
	}
}

// Configure wires NATS topics to handler methods.
func (r *TrackingRouter) Configure(_ context.Context, handlers trackinghandlers.Handlers) error {
	r.logger.Info("Registering tracking module handlers",
		slog.String("sync_requested_subject", events.ChallengeSyncRequestedV1),
	)

	handlerName := "tracking." + events.ChallengeSyncRequestedV1
	r.router.AddNoPublisherHandler(
		handlerName,
		events.ChallengeSyncRequestedV1,
		r.subscriber,
		noOutput(handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, handlers.HandleSyncRequested)),
	)
	return nil
}

// noOutput drops produced messages for handlers registered without a publisher.
func noOutput(h message.HandlerFunc) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		_, err := h(msg)
		return err
	}
}
