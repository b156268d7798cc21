package leaderboardadapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// ChallengeReaderAdapter adapts the challenge repository to the leaderboard's ChallengeReader port.
type ChallengeReaderAdapter struct {
	repo challengedb.Repository
}

func NewChallengeReaderAdapter(repo challengedb.Repository) *ChallengeReaderAdapter {
	return &ChallengeReaderAdapter{repo: repo}
}

func (a *ChallengeReaderAdapter) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*leaderboardservice.ChallengeInfo, error) {
	c, err := a.repo.GetChallenge(ctx, nil, challengeID)
	if err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return nil, leaderboardservice.ErrChallengeNotFound
		}
		return nil, err
	}
	return &leaderboardservice.ChallengeInfo{
		ID:      c.ID,
		Name:    c.Name,
		Rule:    rankedtypes.ParseRule(c.RankingRule),
		StartAt: c.StartAt,
		EndAt:   c.EndAt,
	}, nil
}

func (a *ChallengeReaderAdapter) ListActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Player, error) {
	rows, err := a.repo.ListPlayers(ctx, nil, challengeID, true)
	if err != nil {
		return nil, err
	}
	players := make([]leaderboarddomain.Player, 0, len(rows))
	for _, p := range rows {
		players = append(players, leaderboarddomain.Player{
			ID:     p.ID,
			Name:   p.Name,
			PUUID:  p.PUUID,
			Region: p.Region,
			Team:   p.Team,
			Active: p.Active,
		})
	}
	return players, nil
}

var _ leaderboardservice.ChallengeReader = (*ChallengeReaderAdapter)(nil)
