package trackingadapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	challengeservice "github.com/soloq-club/soloq-tracker/app/modules/challenge/application"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	trackingservice "github.com/soloq-club/soloq-tracker/app/modules/tracking/application"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// Authorizer is the role check exposed by the challenge service.
type Authorizer interface {
	Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error
}

// ChallengeSource reads challenges through the challenge module.
type ChallengeSource struct {
	auth Authorizer
	repo challengedb.Repository
}

// NewChallengeSource creates a ChallengeSource.
func NewChallengeSource(auth Authorizer, repo challengedb.Repository) *ChallengeSource {
	return &ChallengeSource{auth: auth, repo: repo}
}

func (s *ChallengeSource) Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error {
	err := s.auth.Authorize(ctx, userID, challengeID)
	switch {
	case errors.Is(err, challengeservice.ErrChallengeNotFound):
		return trackingservice.ErrChallengeNotFound
	case errors.Is(err, challengeservice.ErrForbidden):
		return trackingservice.ErrForbidden
	}
	return err
}

func (s *ChallengeSource) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*trackingservice.Challenge, error) {
	c, err := s.repo.GetChallenge(ctx, nil, challengeID)
	if err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return nil, trackingservice.ErrChallengeNotFound
		}
		return nil, err
	}
	out := toChallenge(*c)
	return &out, nil
}

func (s *ChallengeSource) RunningChallenges(ctx context.Context, at time.Time) ([]trackingservice.Challenge, error) {
	rows, err := s.repo.ListRunningChallenges(ctx, nil, at)
	if err != nil {
		return nil, err
	}
	out := make([]trackingservice.Challenge, 0, len(rows))
	for _, c := range rows {
		out = append(out, toChallenge(c))
	}
	return out, nil
}

func (s *ChallengeSource) ActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]trackingservice.Player, error) {
	rows, err := s.repo.ListPlayers(ctx, nil, challengeID, true)
	if err != nil {
		return nil, err
	}
	out := make([]trackingservice.Player, 0, len(rows))
	for _, p := range rows {
		out = append(out, trackingservice.Player{
			ID:     p.ID,
			Name:   p.Name,
			PUUID:  p.PUUID,
			Region: rankedtypes.Region(p.Region),
		})
	}
	return out, nil
}

func toChallenge(c challengedb.Challenge) trackingservice.Challenge {
	return trackingservice.Challenge{
		ID:      c.ID,
		Name:    c.Name,
		StartAt: c.StartAt,
		EndAt:   c.EndAt,
	}
}

var _ trackingservice.ChallengeSource = (*ChallengeSource)(nil)
