package trackingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
)

type syncResult = results.OperationResult[*SyncReport, error]

// SyncActiveChallenges records a snapshot batch and new match outcomes for every
// challenge whose window contains the current time.
func (s *TrackingService) SyncActiveChallenges(ctx context.Context) (*SyncReport, error) {
	now := s.stamp()
	result, err := withTelemetry(s, ctx, "SyncActiveChallenges", now.Format(time.RFC3339), func(ctx context.Context) (syncResult, error) {
		challenges, err := s.challenges.RunningChallenges(ctx, now)
		if err != nil {
			return syncResult{}, fmt.Errorf("failed to list running challenges: %w", err)
		}

		report := &SyncReport{Challenges: len(challenges), Timestamp: now}
		for _, c := range challenges {
			if err := s.syncChallenge(ctx, c, now, report); err != nil {
				return syncResult{}, err
			}
		}

		s.logger.InfoContext(ctx, "Sync finished",
			slog.Int("challenges", report.Challenges),
			slog.Int("inserted", report.Inserted),
			slog.Int("matches", report.Matches),
			slog.Int("errors", report.Errors),
		)
		return results.SuccessResult[*SyncReport, error](report), nil
	})
	return unwrap(result, err)
}

// syncChallenge adds one challenge's counts to report. It only returns errors that
// should stop the whole pass.
func (s *TrackingService) syncChallenge(ctx context.Context, c Challenge, now time.Time, report *SyncReport) error {
	logger := s.logger.With(slog.String("challenge_id", c.ID.String()))

	players, err := s.challenges.ActivePlayers(ctx, c.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list players", slog.Any("error", err))
		report.Errors++
		return ctx.Err()
	}

	batch, err := s.snapshotPlayers(ctx, c.ID, players, now)
	switch {
	case errors.Is(err, riotclient.ErrForbidden), ctx.Err() != nil:
		return errors.Join(err, ctx.Err())
	case err != nil:
		logger.ErrorContext(ctx, "Failed to store snapshots", slog.Any("error", err))
		report.Errors++
	default:
		report.Inserted += batch.Inserted
		report.Errors += batch.Errors
	}

	for _, p := range players {
		stored, failed, err := s.syncMatches(ctx, c, p)
		report.Errors += failed
		if err != nil {
			if errors.Is(err, riotclient.ErrForbidden) || ctx.Err() != nil {
				return errors.Join(err, ctx.Err())
			}
			logger.WarnContext(ctx, "Match sync failed",
				slog.String("player_id", p.ID.String()),
				slog.Any("error", err),
			)
			report.Errors++
			continue
		}
		report.Matches += stored
	}
	return nil
}

// syncMatches stores outcomes of ranked games the player finished inside the
// challenge window that are not stored yet. Remakes and games outside the
// window are recorded as skipped. A match that cannot be fetched is counted in
// failed and retried on the next pass; the rest are still stored.
func (s *TrackingService) syncMatches(ctx context.Context, c Challenge, p Player) (stored, failed int, err error) {
	ids, err := s.riot.RankedMatchIDs(ctx, p.Region, p.PUUID, c.StartAt, s.matchWindow)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}

	known, err := s.repo.KnownMatchIDs(ctx, nil, c.ID, p.ID, ids)
	if err != nil {
		return 0, 0, err
	}

	var (
		matches []trackingdb.PlayerMatch
		skipped []trackingdb.SkippedMatch
	)
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		outcome, playedAt, err := s.riot.MatchOutcome(ctx, p.Region, id, p.PUUID)
		if err != nil {
			if errors.Is(err, riotclient.ErrForbidden) || ctx.Err() != nil {
				return 0, failed, errors.Join(err, ctx.Err())
			}
			s.logger.WarnContext(ctx, "Match lookup failed",
				slog.String("challenge_id", c.ID.String()),
				slog.String("player_id", p.ID.String()),
				slog.String("match_id", id),
				slog.Any("error", err),
			)
			failed++
			continue
		}

		var reason string
		switch {
		case !c.Contains(playedAt):
			reason = trackingdb.SkipReasonOutsideWindow
		case !outcome.Scored():
			reason = trackingdb.SkipReasonRemake
		default:
			matches = append(matches, trackingdb.PlayerMatch{
				ChallengeID: c.ID,
				PlayerID:    p.ID,
				MatchID:     id,
				Result:      string(outcome),
				PlayedAt:    playedAt,
			})
			continue
		}
		skipped = append(skipped, trackingdb.SkippedMatch{
			ChallengeID: c.ID,
			PlayerID:    p.ID,
			MatchID:     id,
			Reason:      reason,
			PlayedAt:    playedAt,
		})
	}

	if _, err := s.repo.InsertSkippedMatches(ctx, nil, skipped); err != nil {
		return 0, failed, err
	}
	stored, err = s.repo.InsertMatches(ctx, nil, matches)
	return stored, failed, err
}
