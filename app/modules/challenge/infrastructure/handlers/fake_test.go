package challengehandlers

import (
	"context"

	"github.com/google/uuid"
	challengeservice "github.com/soloq-club/soloq-tracker/app/modules/challenge/application"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	CreateChallengeFunc func(ctx context.Context, userID string, input challengeservice.CreateChallengeInput) (*challengeservice.ChallengeView, error)
	GetChallengeFunc    func(ctx context.Context, challengeID uuid.UUID) (*challengeservice.ChallengeView, error)
	ListChallengesFunc  func(ctx context.Context, opts challengeservice.ListChallengesInput) ([]challengeservice.ChallengeView, error)
	UpdateChallengeFunc func(ctx context.Context, userID string, challengeID uuid.UUID, patch challengeservice.UpdateChallengeInput) (*challengeservice.ChallengeView, error)
	DeleteChallengeFunc func(ctx context.Context, userID string, challengeID uuid.UUID) error
	AddPlayersFunc      func(ctx context.Context, userID string, challengeID uuid.UUID, inputs []challengeservice.PlayerInput) (*challengeservice.AddPlayersResult, error)
	RemovePlayerFunc    func(ctx context.Context, userID string, challengeID, playerID uuid.UUID) error
	ListPlayersFunc     func(ctx context.Context, challengeID uuid.UUID, activeOnly bool) ([]challengeservice.PlayerView, error)
	AuthorizeFunc       func(ctx context.Context, userID string, challengeID uuid.UUID) error
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateChallenge(ctx context.Context, userID string, input challengeservice.CreateChallengeInput) (*challengeservice.ChallengeView, error) {
	f.record("CreateChallenge")
	if f.CreateChallengeFunc != nil {
		return f.CreateChallengeFunc(ctx, userID, input)
	}
	return &challengeservice.ChallengeView{}, nil
}

func (f *FakeService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*challengeservice.ChallengeView, error) {
	f.record("GetChallenge")
	if f.GetChallengeFunc != nil {
		return f.GetChallengeFunc(ctx, challengeID)
	}
	return nil, challengeservice.ErrChallengeNotFound
}

func (f *FakeService) ListChallenges(ctx context.Context, opts challengeservice.ListChallengesInput) ([]challengeservice.ChallengeView, error) {
	f.record("ListChallenges")
	if f.ListChallengesFunc != nil {
		return f.ListChallengesFunc(ctx, opts)
	}
	return []challengeservice.ChallengeView{}, nil
}

func (f *FakeService) UpdateChallenge(ctx context.Context, userID string, challengeID uuid.UUID, patch challengeservice.UpdateChallengeInput) (*challengeservice.ChallengeView, error) {
	f.record("UpdateChallenge")
	if f.UpdateChallengeFunc != nil {
		return f.UpdateChallengeFunc(ctx, userID, challengeID, patch)
	}
	return &challengeservice.ChallengeView{ID: challengeID}, nil
}

func (f *FakeService) DeleteChallenge(ctx context.Context, userID string, challengeID uuid.UUID) error {
	f.record("DeleteChallenge")
	if f.DeleteChallengeFunc != nil {
		return f.DeleteChallengeFunc(ctx, userID, challengeID)
	}
	return nil
}

func (f *FakeService) AddPlayers(ctx context.Context, userID string, challengeID uuid.UUID, inputs []challengeservice.PlayerInput) (*challengeservice.AddPlayersResult, error) {
	f.record("AddPlayers")
	if f.AddPlayersFunc != nil {
		return f.AddPlayersFunc(ctx, userID, challengeID, inputs)
	}
	return &challengeservice.AddPlayersResult{}, nil
}

func (f *FakeService) RemovePlayer(ctx context.Context, userID string, challengeID, playerID uuid.UUID) error {
	f.record("RemovePlayer")
	if f.RemovePlayerFunc != nil {
		return f.RemovePlayerFunc(ctx, userID, challengeID, playerID)
	}
	return nil
}

func (f *FakeService) ListPlayers(ctx context.Context, challengeID uuid.UUID, activeOnly bool) ([]challengeservice.PlayerView, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, challengeID, activeOnly)
	}
	return []challengeservice.PlayerView{}, nil
}

func (f *FakeService) Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error {
	f.record("Authorize")
	if f.AuthorizeFunc != nil {
		return f.AuthorizeFunc(ctx, userID, challengeID)
	}
	return nil
}

var _ challengeservice.Service = (*FakeService)(nil)
