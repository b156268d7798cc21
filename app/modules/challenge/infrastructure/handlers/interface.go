package challengehandlers

import "net/http"

// Handlers defines the HTTP handlers of the challenge module.
type Handlers interface {
	HandleListChallenges(w http.ResponseWriter, r *http.Request)
	HandleCreateChallenge(w http.ResponseWriter, r *http.Request)
	HandleGetChallenge(w http.ResponseWriter, r *http.Request)
	HandleUpdateChallenge(w http.ResponseWriter, r *http.Request)
	HandleDeleteChallenge(w http.ResponseWriter, r *http.Request)

	HandleListPlayers(w http.ResponseWriter, r *http.Request)
	HandleAddPlayers(w http.ResponseWriter, r *http.Request)
	HandleRemovePlayer(w http.ResponseWriter, r *http.Request)
}
