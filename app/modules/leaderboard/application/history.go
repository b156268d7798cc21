package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
)

const unknownPlayerName = "Unknown"

type historyResult = results.OperationResult[[]HistoryPoint, error]

// GetLPHistory returns the LP timeline of a challenge, optionally for one player.
func (s *LeaderboardService) GetLPHistory(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]HistoryPoint, error) {
	result, err := withTelemetry(s, ctx, "GetLPHistory", challengeID.String(), func(ctx context.Context) (historyResult, error) {
		snaps, err := s.listSnapshots(ctx, challengeID, playerID)
		if err != nil {
			if errors.Is(err, ErrChallengeNotFound) {
				return results.FailureResult[[]HistoryPoint, error](err), nil
			}
			return historyResult{}, err
		}
		return results.SuccessResult[[]HistoryPoint, error](bucketHistory(snaps)), nil
	})
	return unwrap(result, err)
}

func (s *LeaderboardService) listSnapshots(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]PlayerSnapshot, error) {
	if _, err := s.lookupChallenge(ctx, challengeID); err != nil {
		return nil, err
	}
	snaps, err := s.history.ListSnapshots(ctx, challengeID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// bucketHistory groups ascending snapshots by minute. A later snapshot in the
// same bucket overwrites an earlier one for the same player.
func bucketHistory(snaps []PlayerSnapshot) []HistoryPoint {
	points := make([]HistoryPoint, 0)
	index := make(map[string]int)

	for _, snap := range snaps {
		at := snap.TakenAt.UTC()
		label := at.Format(historyTimeLayout)

		i, ok := index[label]
		if !ok {
			i = len(points)
			index[label] = i
			points = append(points, HistoryPoint{Time: label, At: at, Values: map[string]int{}})
		}

		name := snap.PlayerName
		if name == "" {
			name = unknownPlayerName
		}
		points[i].Values[name] = snap.LP
	}
	return points
}

type matchesResult = results.OperationResult[[]leaderboarddomain.Match, error]

// RecentMatches returns a player's latest matches, newest first. The player
// must be active in the challenge.
// limit defaults to DefaultRecentMatches and is capped at the match window.
func (s *LeaderboardService) RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error) {
	if limit <= 0 {
		limit = DefaultRecentMatches
	}
	if limit > maxRecentMatches {
		limit = maxRecentMatches
	}

	result, err := withTelemetry(s, ctx, "RecentMatches", playerID.String(), func(ctx context.Context) (matchesResult, error) {
		if err := s.requireMember(ctx, challengeID, playerID); err != nil {
			if errors.Is(err, ErrChallengeNotFound) || errors.Is(err, ErrPlayerNotFound) {
				return results.FailureResult[[]leaderboarddomain.Match, error](err), nil
			}
			return matchesResult{}, err
		}
		matches, err := s.history.RecentMatches(ctx, challengeID, playerID, limit)
		if err != nil {
			return matchesResult{}, fmt.Errorf("failed to read matches: %w", err)
		}
		if matches == nil {
			matches = []leaderboarddomain.Match{}
		}
		return results.SuccessResult[[]leaderboarddomain.Match, error](matches), nil
	})
	return unwrap(result, err)
}

func (s *LeaderboardService) requireMember(ctx context.Context, challengeID, playerID uuid.UUID) error {
	if _, err := s.lookupChallenge(ctx, challengeID); err != nil {
		return err
	}
	players, err := s.challenges.ListActivePlayers(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	for _, p := range players {
		if p.ID == playerID {
			return nil
		}
	}
	return ErrPlayerNotFound
}
