package leaderboardadapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
)

// HistoryReaderAdapter adapts the tracking repository to the leaderboard's HistoryReader port.
type HistoryReaderAdapter struct {
	repo trackingdb.Repository
}

func NewHistoryReaderAdapter(repo trackingdb.Repository) *HistoryReaderAdapter {
	return &HistoryReaderAdapter{repo: repo}
}

func (a *HistoryReaderAdapter) SnapshotBounds(ctx context.Context, challengeID, playerID uuid.UUID) (*leaderboarddomain.Snapshot, *leaderboarddomain.Snapshot, error) {
	first, err := a.boundary(a.repo.FirstSnapshot(ctx, nil, challengeID, playerID))
	if err != nil {
		return nil, nil, err
	}
	if first == nil {
		return nil, nil, nil
	}
	last, err := a.boundary(a.repo.LastSnapshot(ctx, nil, challengeID, playerID))
	if err != nil {
		return nil, nil, err
	}
	return first, last, nil
}

func (a *HistoryReaderAdapter) boundary(snap *trackingdb.RankSnapshot, err error) (*leaderboarddomain.Snapshot, error) {
	if err != nil {
		if errors.Is(err, trackingdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := toSnapshot(*snap)
	return &out, nil
}

func (a *HistoryReaderAdapter) RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error) {
	rows, err := a.repo.RecentMatches(ctx, nil, challengeID, playerID, limit)
	if err != nil {
		return nil, err
	}
	matches := make([]leaderboarddomain.Match, 0, len(rows))
	for _, m := range rows {
		matches = append(matches, leaderboarddomain.Match{
			MatchID:  m.MatchID,
			Result:   m.Result,
			PlayedAt: m.PlayedAt,
		})
	}
	return matches, nil
}

func (a *HistoryReaderAdapter) ListSnapshots(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]leaderboardservice.PlayerSnapshot, error) {
	rows, err := a.repo.ListSnapshots(ctx, nil, challengeID, playerID)
	if err != nil {
		return nil, err
	}
	snaps := make([]leaderboardservice.PlayerSnapshot, 0, len(rows))
	for _, s := range rows {
		snaps = append(snaps, leaderboardservice.PlayerSnapshot{
			PlayerID:   s.PlayerID,
			PlayerName: s.PlayerName,
			Snapshot:   toSnapshot(s.RankSnapshot),
		})
	}
	return snaps, nil
}

func toSnapshot(s trackingdb.RankSnapshot) leaderboarddomain.Snapshot {
	return leaderboarddomain.Snapshot{
		Tier:     s.Tier,
		Division: s.Division,
		LP:       s.LP,
		TakenAt:  s.TakenAt,
	}
}

var _ leaderboardservice.HistoryReader = (*HistoryReaderAdapter)(nil)
