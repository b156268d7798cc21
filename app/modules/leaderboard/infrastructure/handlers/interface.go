package leaderboardhandlers

import "net/http"

// Handlers defines the HTTP handlers of the leaderboard module.
type Handlers interface {
	HandleGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleExportLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleGetLPHistory(w http.ResponseWriter, r *http.Request)
	HandleGetLPChart(w http.ResponseWriter, r *http.Request)
	HandleGetRecentMatches(w http.ResponseWriter, r *http.Request)
}
