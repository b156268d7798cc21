package trackingdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for snapshot and match persistence.
type Repository interface {
	// InsertSnapshots stores snapshots, ignoring ones already recorded, and
	// returns how many rows were written.
	InsertSnapshots(ctx context.Context, db bun.IDB, snapshots []RankSnapshot) (int, error)
	// InsertMatches stores matches, ignoring ones already recorded.
	InsertMatches(ctx context.Context, db bun.IDB, matches []PlayerMatch) (int, error)
	// InsertSkippedMatches stores matches that must not be scored or fetched again.
	InsertSkippedMatches(ctx context.Context, db bun.IDB, matches []SkippedMatch) (int, error)

	// FirstSnapshot and LastSnapshot return ErrNotFound when the player has none.
	FirstSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*RankSnapshot, error)
	LastSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*RankSnapshot, error)
	// ListSnapshots returns snapshots oldest first, optionally for one player.
	ListSnapshots(ctx context.Context, db bun.IDB, challengeID uuid.UUID, playerID *uuid.UUID) ([]NamedSnapshot, error)

	// RecentMatches returns up to limit scored matches, newest first.
	RecentMatches(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, limit int) ([]PlayerMatch, error)
	// KnownMatchIDs returns the subset of matchIDs already stored or skipped for the player.
	KnownMatchIDs(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, matchIDs []string) (map[string]struct{}, error)
}
