package leaderboardservice

import "errors"

var (
	// ErrChallengeNotFound is returned when the requested challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrPlayerNotFound is returned when a player is not part of the challenge.
	ErrPlayerNotFound = errors.New("player not found")
)
