package trackingservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Tracking Repo
// ------------------------

type FakeTrackingRepo struct {
	trace []string

	Snapshots []trackingdb.RankSnapshot
	Matches   []trackingdb.PlayerMatch
	Skipped   []trackingdb.SkippedMatch

	InsertSnapshotsFunc func(ctx context.Context, db bun.IDB, snapshots []trackingdb.RankSnapshot) (int, error)
	InsertMatchesFunc   func(ctx context.Context, db bun.IDB, matches []trackingdb.PlayerMatch) (int, error)
	KnownMatchIDsFunc   func(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, matchIDs []string) (map[string]struct{}, error)
}

func NewFakeTrackingRepo() *FakeTrackingRepo {
	return &FakeTrackingRepo{trace: []string{}}
}

func (f *FakeTrackingRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTrackingRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeTrackingRepo) InsertSnapshots(ctx context.Context, db bun.IDB, snapshots []trackingdb.RankSnapshot) (int, error) {
	f.record("InsertSnapshots")
	if f.InsertSnapshotsFunc != nil {
		return f.InsertSnapshotsFunc(ctx, db, snapshots)
	}
	f.Snapshots = append(f.Snapshots, snapshots...)
	return len(snapshots), nil
}

func (f *FakeTrackingRepo) InsertMatches(ctx context.Context, db bun.IDB, matches []trackingdb.PlayerMatch) (int, error) {
	f.record("InsertMatches")
	if f.InsertMatchesFunc != nil {
		return f.InsertMatchesFunc(ctx, db, matches)
	}
	f.Matches = append(f.Matches, matches...)
	return len(matches), nil
}

func (f *FakeTrackingRepo) InsertSkippedMatches(ctx context.Context, db bun.IDB, matches []trackingdb.SkippedMatch) (int, error) {
	f.record("InsertSkippedMatches")
	f.Skipped = append(f.Skipped, matches...)
	return len(matches), nil
}

func (f *FakeTrackingRepo) FirstSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*trackingdb.RankSnapshot, error) {
	f.record("FirstSnapshot")
	return nil, trackingdb.ErrNotFound
}

func (f *FakeTrackingRepo) LastSnapshot(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID) (*trackingdb.RankSnapshot, error) {
	f.record("LastSnapshot")
	return nil, trackingdb.ErrNotFound
}

func (f *FakeTrackingRepo) ListSnapshots(ctx context.Context, db bun.IDB, challengeID uuid.UUID, playerID *uuid.UUID) ([]trackingdb.NamedSnapshot, error) {
	f.record("ListSnapshots")
	return nil, nil
}

func (f *FakeTrackingRepo) RecentMatches(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, limit int) ([]trackingdb.PlayerMatch, error) {
	f.record("RecentMatches")
	return nil, nil
}

func (f *FakeTrackingRepo) KnownMatchIDs(ctx context.Context, db bun.IDB, challengeID, playerID uuid.UUID, matchIDs []string) (map[string]struct{}, error) {
	f.record("KnownMatchIDs")
	if f.KnownMatchIDsFunc != nil {
		return f.KnownMatchIDsFunc(ctx, db, challengeID, playerID, matchIDs)
	}
	stored := map[string]struct{}{}
	for _, m := range f.Matches {
		if m.ChallengeID == challengeID && m.PlayerID == playerID {
			stored[m.MatchID] = struct{}{}
		}
	}
	for _, m := range f.Skipped {
		if m.ChallengeID == challengeID && m.PlayerID == playerID {
			stored[m.MatchID] = struct{}{}
		}
	}
	known := map[string]struct{}{}
	for _, id := range matchIDs {
		if _, ok := stored[id]; ok {
			known[id] = struct{}{}
		}
	}
	return known, nil
}

// ------------------------
// Fake Challenge Source
// ------------------------

type FakeChallengeSource struct {
	AuthorizeFunc         func(ctx context.Context, userID string, challengeID uuid.UUID) error
	GetChallengeFunc      func(ctx context.Context, challengeID uuid.UUID) (*Challenge, error)
	RunningChallengesFunc func(ctx context.Context, at time.Time) ([]Challenge, error)
	ActivePlayersFunc     func(ctx context.Context, challengeID uuid.UUID) ([]Player, error)
}

func (f *FakeChallengeSource) Authorize(ctx context.Context, userID string, challengeID uuid.UUID) error {
	if f.AuthorizeFunc != nil {
		return f.AuthorizeFunc(ctx, userID, challengeID)
	}
	return nil
}

func (f *FakeChallengeSource) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*Challenge, error) {
	if f.GetChallengeFunc != nil {
		return f.GetChallengeFunc(ctx, challengeID)
	}
	return nil, ErrChallengeNotFound
}

func (f *FakeChallengeSource) RunningChallenges(ctx context.Context, at time.Time) ([]Challenge, error) {
	if f.RunningChallengesFunc != nil {
		return f.RunningChallengesFunc(ctx, at)
	}
	return nil, nil
}

func (f *FakeChallengeSource) ActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]Player, error) {
	if f.ActivePlayersFunc != nil {
		return f.ActivePlayersFunc(ctx, challengeID)
	}
	return nil, nil
}

// ------------------------
// Fake Rank Source
// ------------------------

type matchOutcome struct {
	outcome  rankedtypes.Outcome
	playedAt time.Time
	err      error
}

type FakeRankSource struct {
	mu sync.Mutex

	Entries  map[string]*riotclient.Entry
	EntryErr map[string]error
	MatchIDs map[string][]string
	IDsErr   error
	Outcomes map[string]matchOutcome

	OutcomeCalls []string
}

func NewFakeRankSource() *FakeRankSource {
	return &FakeRankSource{
		Entries:  map[string]*riotclient.Entry{},
		EntryErr: map[string]error{},
		MatchIDs: map[string][]string{},
		Outcomes: map[string]matchOutcome{},
	}
}

func (f *FakeRankSource) RankedSoloEntry(_ context.Context, _ rankedtypes.Region, puuid string) (*riotclient.Entry, error) {
	if err := f.EntryErr[puuid]; err != nil {
		return nil, err
	}
	return f.Entries[puuid], nil
}

func (f *FakeRankSource) RankedMatchIDs(_ context.Context, _ rankedtypes.Region, puuid string, _ time.Time, _ int) ([]string, error) {
	if f.IDsErr != nil {
		return nil, f.IDsErr
	}
	return f.MatchIDs[puuid], nil
}

func (f *FakeRankSource) MatchOutcome(_ context.Context, _ rankedtypes.Region, matchID, puuid string) (rankedtypes.Outcome, time.Time, error) {
	f.mu.Lock()
	f.OutcomeCalls = append(f.OutcomeCalls, matchID)
	f.mu.Unlock()
	o := f.Outcomes[puuid+"/"+matchID]
	return o.outcome, o.playedAt, o.err
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	Topics   []string
	Messages []*message.Message
	Err      error
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if f.Err != nil {
		return f.Err
	}
	f.Topics = append(f.Topics, topic)
	f.Messages = append(f.Messages, msgs...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

var (
	_ trackingdb.Repository = (*FakeTrackingRepo)(nil)
	_ ChallengeSource       = (*FakeChallengeSource)(nil)
	_ RankSource            = (*FakeRankSource)(nil)
	_ message.Publisher     = (*FakePublisher)(nil)
)
