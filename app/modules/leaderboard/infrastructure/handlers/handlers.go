package leaderboardhandlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	"github.com/soloq-club/soloq-tracker/app/shared/httpx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pngContentType  = "image/png"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *LeaderboardHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetLeaderboard")
	defer span.End()

	challengeID, ok := uuidParam(w, r, "id", "Challenge not found")
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("challenge_id", challengeID.String()))

	rows, err := h.service.GetLeaderboard(ctx, challengeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}

func (h *LeaderboardHandlers) HandleExportLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleExportLeaderboard")
	defer span.End()

	challengeID, ok := uuidParam(w, r, "id", "Challenge not found")
	if !ok {
		return
	}

	data, err := h.service.ExportLeaderboard(ctx, challengeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leaderboard-%s.xlsx"`, challengeID))
	writeBinary(w, xlsxContentType, data)
}

func (h *LeaderboardHandlers) HandleGetLPHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetLPHistory")
	defer span.End()

	challengeID, ok := uuidParam(w, r, "id", "Challenge not found")
	if !ok {
		return
	}
	playerID, ok := optionalPlayerID(w, r)
	if !ok {
		return
	}

	history, err := h.service.GetLPHistory(ctx, challengeID, playerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *LeaderboardHandlers) HandleGetLPChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetLPChart")
	defer span.End()

	challengeID, ok := uuidParam(w, r, "id", "Challenge not found")
	if !ok {
		return
	}
	playerID, ok := optionalPlayerID(w, r)
	if !ok {
		return
	}

	png, err := h.service.RenderLPChart(ctx, challengeID, playerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeBinary(w, pngContentType, png)
}

func (h *LeaderboardHandlers) HandleGetRecentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetRecentMatches")
	defer span.End()

	challengeID, ok := uuidParam(w, r, "id", "Challenge not found")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerId", "Player not found")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.service.RecentMatches(ctx, challengeID, playerID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func uuidParam(w http.ResponseWriter, r *http.Request, name, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// optionalPlayerID reads ?playerId=. An absent value selects every player.
func optionalPlayerID(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("playerId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "playerId must be a valid id")
		return nil, false
	}
	return &id, true
}

func writeBinary(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *LeaderboardHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leaderboardservice.ErrChallengeNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, leaderboardservice.ErrPlayerNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Player not found")
	default:
		h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}
