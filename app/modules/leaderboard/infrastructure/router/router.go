package leaderboardrouter

import (
	"github.com/go-chi/chi/v5"
	leaderboardhandlers "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/infrastructure/handlers"
)

// Register mounts the public leaderboard routes.
func Register(r chi.Router, h leaderboardhandlers.Handlers) {
	r.Get("/api/challenges/{id}/leaderboard", h.HandleGetLeaderboard)
	r.Get("/api/challenges/{id}/leaderboard.xlsx", h.HandleExportLeaderboard)
	r.Get("/api/challenges/{id}/lp-history", h.HandleGetLPHistory)
	r.Get("/api/challenges/{id}/lp-chart.png", h.HandleGetLPChart)
	r.Get("/api/challenges/{id}/players/{playerId}/matches", h.HandleGetRecentMatches)
}
