package challengeservice

import (
	"context"

	"github.com/google/uuid"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// Service defines the contract for challenge and roster management.
type Service interface {
	CreateChallenge(ctx context.Context, userID string, input CreateChallengeInput) (*ChallengeView, error)
	GetChallenge(ctx context.Context, challengeID uuid.UUID) (*ChallengeView, error)
	ListChallenges(ctx context.Context, opts ListChallengesInput) ([]ChallengeView, error)
	UpdateChallenge(ctx context.Context, userID string, challengeID uuid.UUID, patch UpdateChallengeInput) (*ChallengeView, error)
	DeleteChallenge(ctx context.Context, userID string, challengeID uuid.UUID) error

	AddPlayers(ctx context.Context, userID string, challengeID uuid.UUID, inputs []PlayerInput) (*AddPlayersResult, error)
	RemovePlayer(ctx context.Context, userID string, challengeID, playerID uuid.UUID) error
	ListPlayers(ctx context.Context, challengeID uuid.UUID, activeOnly bool) ([]PlayerView, error)

	// Authorize returns ErrForbidden unless userID may manage the challenge.
	Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error
}

// IdentityResolver looks up Riot accounts. Lookups that find nothing return
// (nil, nil).
type IdentityResolver interface {
	AccountByRiotID(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*Account, error)
	SummonerByName(ctx context.Context, region rankedtypes.Region, name string) (*Summoner, error)
	SummonerByPUUID(ctx context.Context, region rankedtypes.Region, puuid string) (*Summoner, error)
}
