package challengerouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	challengehandlers "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/handlers"
)

// Register mounts the challenge routes. requireUser guards every mutation.
func Register(r chi.Router, h challengehandlers.Handlers, requireUser func(http.Handler) http.Handler) {
	r.Get("/api/challenges", h.HandleListChallenges)
	r.Get("/api/challenges/{id}", h.HandleGetChallenge)
	r.Get("/api/challenges/{id}/players", h.HandleListPlayers)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/api/challenges", h.HandleCreateChallenge)
		r.Put("/api/challenges/{id}", h.HandleUpdateChallenge)
		r.Put("/api/challenges/{id}/update", h.HandleUpdateChallenge)
		r.Delete("/api/challenges/{id}", h.HandleDeleteChallenge)
		r.Post("/api/challenges/{id}/players", h.HandleAddPlayers)
		r.Post("/api/challenges/{id}/remove-player", h.HandleRemovePlayer)
	})
}
