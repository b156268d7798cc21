package challengedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a challenge, member or player is not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicatePlayer is returned when the account is already on the roster.
	ErrDuplicatePlayer = errors.New("player already registered")
)

const defaultListLimit = 100

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new challenge repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateChallenge(ctx context.Context, db bun.IDB, challenge *Challenge) error {
	db = r.resolveDB(db)
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	now := time.Now().UTC()
	challenge.CreatedAt = now
	challenge.UpdatedAt = now
	if _, err := db.NewInsert().Model(challenge).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

func (r *Impl) GetChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) (*Challenge, error) {
	db = r.resolveDB(db)
	challenge := new(Challenge)
	err := db.NewSelect().
		Model(challenge).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return challenge, nil
}

func (r *Impl) ListChallenges(ctx context.Context, db bun.IDB, opts ListOptions) ([]Challenge, error) {
	db = r.resolveDB(db)
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var challenges []Challenge
	q := db.NewSelect().
		Model(&challenges).
		Order("c.created_at DESC").
		Limit(limit)
	if opts.Visibility != "" {
		q = q.Where("c.visibility = ?", opts.Visibility)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

func (r *Impl) ListRunningChallenges(ctx context.Context, db bun.IDB, at time.Time) ([]Challenge, error) {
	db = r.resolveDB(db)
	var challenges []Challenge
	err := db.NewSelect().
		Model(&challenges).
		Where("c.start_at <= ?", at).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("c.end_at IS NULL").WhereOr("c.end_at >= ?", at)
		}).
		Order("c.start_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list running challenges: %w", err)
	}
	return challenges, nil
}

func (r *Impl) UpdateChallenge(ctx context.Context, db bun.IDB, challenge *Challenge) error {
	db = r.resolveDB(db)
	challenge.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(challenge).
		Column("name", "ranking_rule", "visibility", "start_at", "end_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	return requireAffected(result)
}

func (r *Impl) DeleteChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Challenge)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return requireAffected(result)
}

func (r *Impl) AddMember(ctx context.Context, db bun.IDB, member *Member) error {
	db = r.resolveDB(db)
	member.CreatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(member).
		On("CONFLICT (challenge_id, user_id) DO UPDATE").
		Set("role = EXCLUDED.role").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *Impl) GetMember(ctx context.Context, db bun.IDB, challengeID uuid.UUID, userID string) (*Member, error) {
	db = r.resolveDB(db)
	member := new(Member)
	err := db.NewSelect().
		Model(member).
		Where("cm.challenge_id = ?", challengeID).
		Where("cm.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (r *Impl) InsertPlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	player.CreatedAt = time.Now().UTC()
	result, err := db.NewInsert().
		Model(player).
		On("CONFLICT (challenge_id, puuid) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDuplicatePlayer
	}
	return nil
}

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.id = ?", playerID).
		Where("p.challenge_id = ?", challengeID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, challengeID uuid.UUID, activeOnly bool) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	q := db.NewSelect().
		Model(&players).
		Where("p.challenge_id = ?", challengeID).
		Order("p.created_at ASC", "p.id ASC")
	if activeOnly {
		q = q.Where("p.active = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *Impl) SetPlayerActive(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, active bool) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("active = ?", active).
		Where("id = ?", playerID).
		Where("challenge_id = ?", challengeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return requireAffected(result)
}

func (r *Impl) ReactivatePlayer(ctx context.Context, db bun.IDB, challengeID uuid.UUID, puuid string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewUpdate().
		Model(player).
		Set("active = TRUE").
		Where("challenge_id = ?", challengeID).
		Where("puuid = ?", puuid).
		Where("active = FALSE").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reactivate player: %w", err)
	}
	return player, nil
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
