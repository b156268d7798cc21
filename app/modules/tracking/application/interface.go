package trackingservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
)

// Service records rank snapshots and match outcomes for challenge rosters.
type Service interface {
	// SnapshotChallenge stores one snapshot per active player on behalf of a manager.
	SnapshotChallenge(ctx context.Context, userID string, challengeID uuid.UUID) (*SnapshotResult, error)
	// SystemSnapshot is SnapshotChallenge without the role check, for internal triggers.
	SystemSnapshot(ctx context.Context, challengeID uuid.UUID) (*SnapshotResult, error)
	// SyncActiveChallenges snapshots and syncs matches for every running challenge.
	SyncActiveChallenges(ctx context.Context) (*SyncReport, error)
}

// ChallengeSource reads challenges and rosters owned by the challenge module.
type ChallengeSource interface {
	// Authorize returns ErrForbidden or ErrChallengeNotFound when userID may not manage the challenge.
	Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error
	GetChallenge(ctx context.Context, challengeID uuid.UUID) (*Challenge, error)
	RunningChallenges(ctx context.Context, at time.Time) ([]Challenge, error)
	ActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]Player, error)
}

// RankSource fetches ranked data from Riot.
type RankSource interface {
	// RankedSoloEntry returns nil when the player is unranked.
	RankedSoloEntry(ctx context.Context, region rankedtypes.Region, puuid string) (*riotclient.Entry, error)
	RankedMatchIDs(ctx context.Context, region rankedtypes.Region, puuid string, since time.Time, count int) ([]string, error)
	MatchOutcome(ctx context.Context, region rankedtypes.Region, matchID, puuid string) (rankedtypes.Outcome, time.Time, error)
}
