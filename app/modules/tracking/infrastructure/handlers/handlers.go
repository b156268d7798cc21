package trackinghandlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	trackingservice "github.com/soloq-club/soloq-tracker/app/modules/tracking/application"
	"github.com/soloq-club/soloq-tracker/app/events"
	"github.com/soloq-club/soloq-tracker/app/shared/httpx"
	"github.com/soloq-club/soloq-tracker/pkg/handlerwrapper"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TrackingHandlers implements the Handlers interface.
type TrackingHandlers struct {
	service    trackingservice.Service
	cronSecret string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewTrackingHandlers creates a new TrackingHandlers instance. An empty
// cronSecret rejects every cron call.
func NewTrackingHandlers(
	service trackingservice.Service,
	cronSecret string,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &TrackingHandlers{
		service:    service,
		cronSecret: cronSecret,
		logger:     logger,
		tracer:     tracer,
	}
}

type cronResponse struct {
	Success bool `json:"success"`
	*trackingservice.SyncReport
}

func (h *TrackingHandlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TrackingHandlers.HandleSnapshot")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	challengeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Challenge not found")
		return
	}
	span.SetAttributes(attribute.String("challenge_id", challengeID.String()))

	res, err := h.service.SnapshotChallenge(ctx, userID, challengeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *TrackingHandlers) HandleCronSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TrackingHandlers.HandleCronSync")
	defer span.End()

	if !h.cronAuthorized(r) {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.service.SyncActiveChallenges(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cronResponse{Success: true, SyncReport: report})
}

func (h *TrackingHandlers) HandleSyncRequested(ctx context.Context, payload *events.ChallengeSyncRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "TrackingHandlers.HandleSyncRequested")
	defer span.End()

	res, err := h.service.SystemSnapshot(ctx, payload.ChallengeID)
	if err != nil {
		if errors.Is(err, trackingservice.ErrChallengeNotFound) {
			h.logger.WarnContext(ctx, "Sync requested for unknown challenge",
				slog.String("challenge_id", payload.ChallengeID.String()),
			)
			return nil, nil
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Requested sync completed",
		slog.String("challenge_id", payload.ChallengeID.String()),
		slog.Int("inserted", res.Inserted),
	)
	return nil, nil
}

// cronAuthorized accepts the secret as a bearer token or an apiKey query parameter.
func (h *TrackingHandlers) cronAuthorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	provided, ok := httpx.BearerToken(r)
	if !ok {
		provided = r.URL.Query().Get("apiKey")
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.cronSecret)) == 1
}

func (h *TrackingHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, trackingservice.ErrChallengeNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, trackingservice.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, riotclient.ErrForbidden):
		httpx.WriteError(w, http.StatusBadGateway, riotclient.ErrForbidden.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Tracking request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}
