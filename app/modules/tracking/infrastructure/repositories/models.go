package trackingdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RankSnapshot is a player's ranked solo standing at a point in time.
// (player_id, challenge_id, taken_at) is unique.
type RankSnapshot struct {
	bun.BaseModel `bun:"table:rank_snapshots,alias:rs"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	ChallengeID   uuid.UUID `bun:"challenge_id,notnull,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,notnull,type:uuid"`
	Tier          string    `bun:"tier,notnull"`
	Division      string    `bun:"division,notnull"`
	LP            int       `bun:"lp,notnull"`
	TakenAt       time.Time `bun:"taken_at,notnull"`
}

// PlayerMatch is the outcome of one ranked game for a player. Result is WIN or
// LOSS. (player_id, challenge_id, match_id) is unique.
type PlayerMatch struct {
	bun.BaseModel `bun:"table:player_matches,alias:pm"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	ChallengeID   uuid.UUID `bun:"challenge_id,notnull,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,notnull,type:uuid"`
	MatchID       string    `bun:"match_id,notnull"`
	Result        string    `bun:"result,notnull"`
	PlayedAt      time.Time `bun:"played_at,notnull"`
}

// Reasons a fetched match is not scored.
const (
	SkipReasonRemake        = "REMAKE"
	SkipReasonOutsideWindow = "OUTSIDE_WINDOW"
)

// SkippedMatch marks a match that was fetched but does not count, so later
// syncs do not fetch it again. (player_id, challenge_id, match_id) is unique.
type SkippedMatch struct {
	bun.BaseModel `bun:"table:skipped_matches,alias:sm"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	ChallengeID   uuid.UUID `bun:"challenge_id,notnull,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,notnull,type:uuid"`
	MatchID       string    `bun:"match_id,notnull"`
	Reason        string    `bun:"reason,notnull"`
	PlayedAt      time.Time `bun:"played_at,notnull"`
}

// NamedSnapshot is a snapshot joined with the player's display name.
type NamedSnapshot struct {
	RankSnapshot `bun:",extend"`
	PlayerName   string `bun:"player_name"`
}
