package challengemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating challenges, challenge_members and players tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS challenges (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name TEXT NOT NULL,
					ranking_rule VARCHAR(32) NOT NULL DEFAULT 'lp_gained',
					visibility VARCHAR(16) NOT NULL DEFAULT 'public',
					owner_id TEXT NOT NULL,
					start_at TIMESTAMPTZ NOT NULL,
					end_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT challenges_window_check CHECK (end_at IS NULL OR end_at > start_at)
				);
				CREATE INDEX IF NOT EXISTS idx_challenges_window ON challenges(start_at, end_at);
				CREATE INDEX IF NOT EXISTS idx_challenges_created_at ON challenges(created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create challenges table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS challenge_members (
					challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					role VARCHAR(16) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (challenge_id, user_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create challenge_members table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					region VARCHAR(8) NOT NULL,
					puuid TEXT NOT NULL,
					summoner_id TEXT,
					profile_icon_id INTEGER,
					team TEXT,
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT players_challenge_puuid_key UNIQUE (challenge_id, puuid)
				);
				CREATE INDEX IF NOT EXISTS idx_players_challenge_active ON players(challenge_id, active);
			`); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping challenge tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS players;
				DROP TABLE IF EXISTS challenge_members;
				DROP TABLE IF EXISTS challenges;
			`); err != nil {
				return fmt.Errorf("failed to drop challenge tables: %w", err)
			}
			return nil
		})
	})
}
