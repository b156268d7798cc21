package challengeservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Challenge Repo
// ------------------------

type FakeChallengeRepo struct {
	trace []string

	CreateChallengeFunc       func(ctx context.Context, db bun.IDB, challenge *challengedb.Challenge) error
	GetChallengeFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (*challengedb.Challenge, error)
	ListChallengesFunc        func(ctx context.Context, db bun.IDB, opts challengedb.ListOptions) ([]challengedb.Challenge, error)
	ListRunningChallengesFunc func(ctx context.Context, db bun.IDB, at time.Time) ([]challengedb.Challenge, error)
	UpdateChallengeFunc       func(ctx context.Context, db bun.IDB, challenge *challengedb.Challenge) error
	DeleteChallengeFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	AddMemberFunc             func(ctx context.Context, db bun.IDB, member *challengedb.Member) error
	GetMemberFunc             func(ctx context.Context, db bun.IDB, challengeID uuid.UUID, userID string) (*challengedb.Member, error)
	InsertPlayerFunc          func(ctx context.Context, db bun.IDB, player *challengedb.Player) error
	GetPlayerFunc             func(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*challengedb.Player, error)
	ListPlayersFunc           func(ctx context.Context, db bun.IDB, challengeID uuid.UUID, activeOnly bool) ([]challengedb.Player, error)
	SetPlayerActiveFunc       func(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, active bool) error
	ReactivatePlayerFunc      func(ctx context.Context, db bun.IDB, challengeID uuid.UUID, puuid string) (*challengedb.Player, error)
}

func NewFakeChallengeRepo() *FakeChallengeRepo {
	return &FakeChallengeRepo{
		trace: []string{},
	}
}

func (f *FakeChallengeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeChallengeRepo) CreateChallenge(ctx context.Context, db bun.IDB, challenge *challengedb.Challenge) error {
	f.record("CreateChallenge")
	if f.CreateChallengeFunc != nil {
		return f.CreateChallengeFunc(ctx, db, challenge)
	}
	return nil
}

func (f *FakeChallengeRepo) GetChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) (*challengedb.Challenge, error) {
	f.record("GetChallenge")
	if f.GetChallengeFunc != nil {
		return f.GetChallengeFunc(ctx, db, id)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) ListChallenges(ctx context.Context, db bun.IDB, opts challengedb.ListOptions) ([]challengedb.Challenge, error) {
	f.record("ListChallenges")
	if f.ListChallengesFunc != nil {
		return f.ListChallengesFunc(ctx, db, opts)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) ListRunningChallenges(ctx context.Context, db bun.IDB, at time.Time) ([]challengedb.Challenge, error) {
	f.record("ListRunningChallenges")
	if f.ListRunningChallengesFunc != nil {
		return f.ListRunningChallengesFunc(ctx, db, at)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) UpdateChallenge(ctx context.Context, db bun.IDB, challenge *challengedb.Challenge) error {
	f.record("UpdateChallenge")
	if f.UpdateChallengeFunc != nil {
		return f.UpdateChallengeFunc(ctx, db, challenge)
	}
	return nil
}

func (f *FakeChallengeRepo) DeleteChallenge(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("DeleteChallenge")
	if f.DeleteChallengeFunc != nil {
		return f.DeleteChallengeFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeChallengeRepo) AddMember(ctx context.Context, db bun.IDB, member *challengedb.Member) error {
	f.record("AddMember")
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, db, member)
	}
	return nil
}

func (f *FakeChallengeRepo) GetMember(ctx context.Context, db bun.IDB, challengeID uuid.UUID, userID string) (*challengedb.Member, error) {
	f.record("GetMember")
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, db, challengeID, userID)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) InsertPlayer(ctx context.Context, db bun.IDB, player *challengedb.Player) error {
	f.record("InsertPlayer")
	if f.InsertPlayerFunc != nil {
		return f.InsertPlayerFunc(ctx, db, player)
	}
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	return nil
}

func (f *FakeChallengeRepo) GetPlayer(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*challengedb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, challengeID, playerID)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) ListPlayers(ctx context.Context, db bun.IDB, challengeID uuid.UUID, activeOnly bool) ([]challengedb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db, challengeID, activeOnly)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) SetPlayerActive(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, active bool) error {
	f.record("SetPlayerActive")
	if f.SetPlayerActiveFunc != nil {
		return f.SetPlayerActiveFunc(ctx, db, challengeID, playerID, active)
	}
	return nil
}

func (f *FakeChallengeRepo) ReactivatePlayer(ctx context.Context, db bun.IDB, challengeID uuid.UUID, puuid string) (*challengedb.Player, error) {
	f.record("ReactivatePlayer")
	if f.ReactivatePlayerFunc != nil {
		return f.ReactivatePlayerFunc(ctx, db, challengeID, puuid)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Identity Resolver
// ------------------------

type FakeIdentityResolver struct {
	trace []string

	AccountByRiotIDFunc func(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*Account, error)
	SummonerByNameFunc  func(ctx context.Context, region rankedtypes.Region, name string) (*Summoner, error)
	SummonerByPUUIDFunc func(ctx context.Context, region rankedtypes.Region, puuid string) (*Summoner, error)
}

func NewFakeIdentityResolver() *FakeIdentityResolver {
	return &FakeIdentityResolver{trace: []string{}}
}

func (f *FakeIdentityResolver) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeIdentityResolver) AccountByRiotID(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*Account, error) {
	f.record("AccountByRiotID")
	if f.AccountByRiotIDFunc != nil {
		return f.AccountByRiotIDFunc(ctx, region, gameName, tagLine)
	}
	return nil, nil
}

func (f *FakeIdentityResolver) SummonerByName(ctx context.Context, region rankedtypes.Region, name string) (*Summoner, error) {
	f.record("SummonerByName")
	if f.SummonerByNameFunc != nil {
		return f.SummonerByNameFunc(ctx, region, name)
	}
	return nil, nil
}

func (f *FakeIdentityResolver) SummonerByPUUID(ctx context.Context, region rankedtypes.Region, puuid string) (*Summoner, error) {
	f.record("SummonerByPUUID")
	if f.SummonerByPUUIDFunc != nil {
		return f.SummonerByPUUIDFunc(ctx, region, puuid)
	}
	return nil, nil
}

func (f *FakeIdentityResolver) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fakes satisfy the interfaces
var (
	_ challengedb.Repository = (*FakeChallengeRepo)(nil)
	_ IdentityResolver       = (*FakeIdentityResolver)(nil)
)
