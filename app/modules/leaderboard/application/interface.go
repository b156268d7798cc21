package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
)

// Service computes standings and history views for a challenge.
type Service interface {
	GetLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Row, error)
	GetLPHistory(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]HistoryPoint, error)
	RenderLPChart(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]byte, error)
	ExportLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]byte, error)
	RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error)
}

// ChallengeReader exposes the challenge record and its roster.
type ChallengeReader interface {
	// GetChallenge returns ErrChallengeNotFound when the challenge does not exist.
	GetChallenge(ctx context.Context, challengeID uuid.UUID) (*ChallengeInfo, error)
	ListActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Player, error)
}

// HistoryReader exposes stored rank snapshots and match outcomes.
type HistoryReader interface {
	// SnapshotBounds returns the earliest and latest snapshot of a player; either may be nil.
	SnapshotBounds(ctx context.Context, challengeID, playerID uuid.UUID) (first, last *leaderboarddomain.Snapshot, err error)
	// RecentMatches returns matches newest first.
	RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error)
	// ListSnapshots returns snapshots oldest first, optionally for one player.
	ListSnapshots(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]PlayerSnapshot, error)
}
