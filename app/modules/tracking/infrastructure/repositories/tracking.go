package trackingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a player has no snapshot.
var ErrNotFound = errors.New("not found")

var scoredResults = []string{"WIN", "LOSS"}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tracking repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) InsertSnapshots(ctx context.Context, db bun.IDB, snapshots []RankSnapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}
	db = r.resolveDB(db)
	for i := range snapshots {
		if snapshots[i].ID == uuid.Nil {
			snapshots[i].ID = uuid.New()
		}
	}
	result, err := db.NewInsert().
		Model(&snapshots).
		On("CONFLICT (player_id, challenge_id, taken_at) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshots: %w", err)
	}
	return affected(result)
}

func (r *Impl) InsertMatches(ctx context.Context, db bun.IDB, matches []PlayerMatch) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}
	db = r.resolveDB(db)
	for i := range matches {
		if matches[i].ID == uuid.Nil {
			matches[i].ID = uuid.New()
		}
	}
	result, err := db.NewInsert().
		Model(&matches).
		On("CONFLICT (player_id, challenge_id, match_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert matches: %w", err)
	}
	return affected(result)
}

func (r *Impl) InsertSkippedMatches(ctx context.Context, db bun.IDB, matches []SkippedMatch) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}
	db = r.resolveDB(db)
	for i := range matches {
		if matches[i].ID == uuid.Nil {
			matches[i].ID = uuid.New()
		}
	}
	result, err := db.NewInsert().
		Model(&matches).
		On("CONFLICT (player_id, challenge_id, match_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert skipped matches: %w", err)
	}
	return affected(result)
}

func (r *Impl) FirstSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*RankSnapshot, error) {
	return r.boundarySnapshot(ctx, db, challengeID, playerID, "rs.taken_at ASC")
}

func (r *Impl) LastSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*RankSnapshot, error) {
	return r.boundarySnapshot(ctx, db, challengeID, playerID, "rs.taken_at DESC")
}

func (r *Impl) boundarySnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, order string) (*RankSnapshot, error) {
	db = r.resolveDB(db)
	snap := new(RankSnapshot)
	err := db.NewSelect().
		Model(snap).
		Where("rs.challenge_id = ?", challengeID).
		Where("rs.player_id = ?", playerID).
		Order(order).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

func (r *Impl) ListSnapshots(ctx context.Context, db bun.IDB, challengeID uuid.UUID, playerID *uuid.UUID) ([]NamedSnapshot, error) {
	db = r.resolveDB(db)
	var rows []NamedSnapshot
	q := db.NewSelect().
		Model(&rows).
		ColumnExpr("rs.*").
		ColumnExpr("p.name AS player_name").
		Join("JOIN players AS p ON p.id = rs.player_id").
		Where("rs.challenge_id = ?", challengeID).
		Order("rs.taken_at ASC", "p.name ASC")
	if playerID != nil {
		q = q.Where("rs.player_id = ?", *playerID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return rows, nil
}

func (r *Impl) RecentMatches(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, limit int) ([]PlayerMatch, error) {
	db = r.resolveDB(db)
	var matches []PlayerMatch
	err := db.NewSelect().
		Model(&matches).
		Where("pm.challenge_id = ?", challengeID).
		Where("pm.player_id = ?", playerID).
		Where("pm.result IN (?)", bun.In(scoredResults)).
		Order("pm.played_at DESC", "pm.match_id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (r *Impl) KnownMatchIDs(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, matchIDs []string) (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(matchIDs))
	if len(matchIDs) == 0 {
		return known, nil
	}
	db = r.resolveDB(db)
	for _, model := range []any{(*PlayerMatch)(nil), (*SkippedMatch)(nil)} {
		var ids []string
		err := db.NewSelect().
			Model(model).
			Column("match_id").
			Where("challenge_id = ?", challengeID).
			Where("player_id = ?", playerID).
			Where("match_id IN (?)", bun.In(matchIDs)).
			Scan(ctx, &ids)
		if err != nil {
			return nil, fmt.Errorf("failed to look up matches: %w", err)
		}
		for _, id := range ids {
			known[id] = struct{}{}
		}
	}
	return known, nil
}

func affected(result sql.Result) (int, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}
