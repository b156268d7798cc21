package trackingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rank_snapshots and player_matches tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rank_snapshots (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
					player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
					tier VARCHAR(16) NOT NULL,
					division VARCHAR(4) NOT NULL DEFAULT '',
					lp INTEGER NOT NULL DEFAULT 0,
					taken_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT rank_snapshots_player_challenge_taken_key UNIQUE (player_id, challenge_id, taken_at)
				);
				CREATE INDEX IF NOT EXISTS idx_rank_snapshots_challenge_taken ON rank_snapshots(challenge_id, taken_at);
			`); err != nil {
				return fmt.Errorf("failed to create rank_snapshots table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS player_matches (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
					player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
					match_id TEXT NOT NULL,
					result VARCHAR(8) NOT NULL,
					played_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT player_matches_player_challenge_match_key UNIQUE (player_id, challenge_id, match_id)
				);
				CREATE INDEX IF NOT EXISTS idx_player_matches_recent ON player_matches(challenge_id, player_id, played_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create player_matches table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tracking tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS player_matches;
				DROP TABLE IF EXISTS rank_snapshots;
			`); err != nil {
				return fmt.Errorf("failed to drop tracking tables: %w", err)
			}
			return nil
		})
	})
}
