package trackingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating skipped_matches table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS skipped_matches (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
					player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
					match_id TEXT NOT NULL,
					reason VARCHAR(16) NOT NULL,
					played_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT skipped_matches_player_challenge_match_key UNIQUE (player_id, challenge_id, match_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create skipped_matches table: %w", err)
			}

			// Remakes used to be stored with the scored matches.
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO skipped_matches (challenge_id, player_id, match_id, reason, played_at)
				SELECT challenge_id, player_id, match_id, 'REMAKE', played_at
				FROM player_matches WHERE result NOT IN ('WIN', 'LOSS')
				ON CONFLICT DO NOTHING;
				DELETE FROM player_matches WHERE result NOT IN ('WIN', 'LOSS');
			`); err != nil {
				return fmt.Errorf("failed to move unscored matches: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping skipped_matches table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS skipped_matches;`)
		if err != nil {
			return fmt.Errorf("failed to drop skipped_matches table: %w", err)
		}
		return nil
	})
}
