package challengedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ListOptions filters ListChallenges.
type ListOptions struct {
	// Visibility restricts results when non-empty.
	Visibility string
	Limit      int
}

// Repository defines the contract for challenge persistence.
type Repository interface {
	CreateChallenge(ctx context.Context, db bun.IDB, challenge *Challenge) error
	GetChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) (*Challenge, error)
	// ListChallenges returns challenges newest first.
	ListChallenges(ctx context.Context, db bun.IDB, opts ListOptions) ([]Challenge, error)
	// ListRunningChallenges returns challenges whose window contains at.
	ListRunningChallenges(ctx context.Context, db bun.IDB, at time.Time) ([]Challenge, error)
	UpdateChallenge(ctx context.Context, db bun.IDB, challenge *Challenge) error
	DeleteChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) error

	AddMember(ctx context.Context, db bun.IDB, member *Member) error
	// GetMember returns ErrNotFound when the user has no role in the challenge.
	GetMember(ctx context.Context, db bun.IDB, challengeID uuid.UUID, userID string) (*Member, error)

	// InsertPlayer returns ErrDuplicatePlayer when the puuid is already registered.
	InsertPlayer(ctx context.Context, db bun.IDB, player *Player) error
	GetPlayer(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*Player, error)
	ListPlayers(ctx context.Context, db bun.IDB, challengeID uuid.UUID, activeOnly bool) ([]Player, error)
	SetPlayerActive(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, active bool) error
	// ReactivatePlayer re-enables a deactivated roster entry by puuid. It returns
	// ErrNotFound when no inactive entry matches.
	ReactivatePlayer(ctx context.Context, db bun.IDB, challengeID uuid.UUID, puuid string) (*Player, error)
}
