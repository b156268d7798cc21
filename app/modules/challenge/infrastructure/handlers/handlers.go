package challengehandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	challengeservice "github.com/soloq-club/soloq-tracker/app/modules/challenge/application"
	"github.com/soloq-club/soloq-tracker/app/shared/httpx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChallengeHandlers implements the Handlers interface.
type ChallengeHandlers struct {
	service challengeservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewChallengeHandlers creates a new ChallengeHandlers instance.
func NewChallengeHandlers(
	service challengeservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ChallengeHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type addPlayersRequest struct {
	Players []challengeservice.PlayerInput `json:"players"`
}

type removePlayerRequest struct {
	PlayerID string `json:"playerId"`
}

func (h *ChallengeHandlers) HandleListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleListChallenges")
	defer span.End()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	challenges, err := h.service.ListChallenges(ctx, challengeservice.ListChallengesInput{
		Visibility: r.URL.Query().Get("visibility"),
		Limit:      limit,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"challenges": challenges})
}

func (h *ChallengeHandlers) HandleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleCreateChallenge")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input challengeservice.CreateChallengeInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid payload: "+err.Error())
		return
	}

	challenge, err := h.service.CreateChallenge(ctx, userID, input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"challenge": challenge})
}

func (h *ChallengeHandlers) HandleGetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleGetChallenge")
	defer span.End()

	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("challenge_id", id.String()))

	challenge, err := h.service.GetChallenge(ctx, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"challenge": challenge})
}

func (h *ChallengeHandlers) HandleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleUpdateChallenge")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}

	var patch challengeservice.UpdateChallengeInput
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid payload: "+err.Error())
		return
	}

	challenge, err := h.service.UpdateChallenge(ctx, userID, id, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"challenge": challenge})
}

func (h *ChallengeHandlers) HandleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleDeleteChallenge")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteChallenge(ctx, userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleListPlayers")
	defer span.End()

	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"

	players, err := h.service.ListPlayers(ctx, id, activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (h *ChallengeHandlers) HandleAddPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleAddPlayers")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}

	var body addPlayersRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid payload: "+err.Error())
		return
	}
	span.SetAttributes(attribute.Int("players", len(body.Players)))

	result, err := h.service.AddPlayers(ctx, userID, id, body.Players)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *ChallengeHandlers) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChallengeHandlers.HandleRemovePlayer")
	defer span.End()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := challengeIDParam(w, r)
	if !ok {
		return
	}

	var body removePlayerRequest
	if err := httpx.DecodeJSON(r, &body); err != nil || body.PlayerID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "playerId is required and must be a string")
		return
	}
	playerID, err := uuid.Parse(body.PlayerID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "playerId must be a UUID")
		return
	}

	if err := h.service.RemovePlayer(ctx, userID, id, playerID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Player removed successfully",
		"playerId": playerID.String(),
	})
}

func challengeIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Challenge not found")
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service errors to HTTP statuses.
func (h *ChallengeHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, challengeservice.ErrChallengeNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, challengeservice.ErrPlayerNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, challengeservice.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "Forbidden")
	case challengeservice.IsValidation(err),
		errors.Is(err, challengeservice.ErrNoPlayers),
		errors.Is(err, challengeservice.ErrTooManyPlayers):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Challenge request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}
