package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"golang.org/x/sync/errgroup"
)

type rowsResult = results.OperationResult[[]leaderboarddomain.Row, error]

// playerFailure records a player whose history could not be read.
type playerFailure struct {
	PlayerID uuid.UUID
	Err      error
}

// GetLeaderboard computes the ordered standings of a challenge.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Row, error) {
	result, err := withTelemetry(s, ctx, "GetLeaderboard", challengeID.String(), func(ctx context.Context) (rowsResult, error) {
		return s.getLeaderboardLogic(ctx, challengeID)
	})
	return unwrap(result, err)
}

func (s *LeaderboardService) getLeaderboardLogic(ctx context.Context, challengeID uuid.UUID) (rowsResult, error) {
	challenge, err := s.lookupChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return results.FailureResult[[]leaderboarddomain.Row, error](err), nil
		}
		return rowsResult{}, err
	}

	players, err := s.challenges.ListActivePlayers(ctx, challengeID)
	if err != nil {
		return rowsResult{}, fmt.Errorf("failed to list players: %w", err)
	}

	histories, failures := s.collectHistories(ctx, challengeID, players)
	for _, f := range failures {
		s.logger.WarnContext(ctx, "Skipping player with unreadable history",
			slog.String("challenge_id", challengeID.String()),
			slog.String("player_id", f.PlayerID.String()),
			slog.Any("error", f.Err),
		)
	}

	rows := leaderboarddomain.Build(challenge.Rule, histories)
	return results.SuccessResult[[]leaderboarddomain.Row, error](rows), nil
}

func (s *LeaderboardService) lookupChallenge(ctx context.Context, challengeID uuid.UUID) (*ChallengeInfo, error) {
	challenge, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

// collectHistories reads every player's history concurrently. Players whose
// reads fail are left out of the histories and reported in failures instead.
// Histories keep roster order.
func (s *LeaderboardService) collectHistories(
	ctx context.Context,
	challengeID uuid.UUID,
	players []leaderboarddomain.Player,
) ([]leaderboarddomain.PlayerHistory, []playerFailure) {
	slots := make([]*leaderboarddomain.PlayerHistory, len(players))
	errs := make([]error, len(players))

	var g errgroup.Group
	g.SetLimit(s.fanOut)
	for i, p := range players {
		g.Go(func() error {
			h, err := s.readHistory(ctx, challengeID, p)
			if err != nil {
				errs[i] = err
				return nil
			}
			slots[i] = &h
			return nil
		})
	}
	_ = g.Wait()

	histories := make([]leaderboarddomain.PlayerHistory, 0, len(players))
	var failures []playerFailure
	for i, h := range slots {
		if errs[i] != nil {
			failures = append(failures, playerFailure{PlayerID: players[i].ID, Err: errs[i]})
			continue
		}
		histories = append(histories, *h)
	}
	return histories, failures
}

func (s *LeaderboardService) readHistory(ctx context.Context, challengeID uuid.UUID, p leaderboarddomain.Player) (h leaderboarddomain.PlayerHistory, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic reading player history: %v", r)
		}
	}()

	first, last, err := s.history.SnapshotBounds(ctx, challengeID, p.ID)
	if err != nil {
		return h, fmt.Errorf("failed to read snapshots: %w", err)
	}

	matches, err := s.history.RecentMatches(ctx, challengeID, p.ID, leaderboarddomain.MatchWindow)
	if err != nil {
		return h, fmt.Errorf("failed to read matches: %w", err)
	}

	h = leaderboarddomain.PlayerHistory{Player: p, Matches: matches}
	if first != nil {
		h.Snapshots = append(h.Snapshots, *first)
	}
	if last != nil {
		h.Snapshots = append(h.Snapshots, *last)
	}
	return h, nil
}
