package leaderboardservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
)

// ------------------------
// Fake Challenge Reader
// ------------------------

type FakeChallengeReader struct {
	mu    sync.Mutex
	trace []string

	GetChallengeFunc      func(ctx context.Context, challengeID uuid.UUID) (*ChallengeInfo, error)
	ListActivePlayersFunc func(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Player, error)
}

func NewFakeChallengeReader() *FakeChallengeReader {
	return &FakeChallengeReader{trace: []string{}}
}

func (f *FakeChallengeReader) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeChallengeReader) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*ChallengeInfo, error) {
	f.record("GetChallenge")
	if f.GetChallengeFunc != nil {
		return f.GetChallengeFunc(ctx, challengeID)
	}
	return nil, ErrChallengeNotFound
}

func (f *FakeChallengeReader) ListActivePlayers(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Player, error) {
	f.record("ListActivePlayers")
	if f.ListActivePlayersFunc != nil {
		return f.ListActivePlayersFunc(ctx, challengeID)
	}
	return nil, nil
}

func (f *FakeChallengeReader) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake History Reader
// ------------------------

type FakeHistoryReader struct {
	mu    sync.Mutex
	trace []string

	SnapshotBoundsFunc func(ctx context.Context, challengeID, playerID uuid.UUID) (*leaderboarddomain.Snapshot, *leaderboarddomain.Snapshot, error)
	RecentMatchesFunc  func(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error)
	ListSnapshotsFunc  func(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]PlayerSnapshot, error)
}

func NewFakeHistoryReader() *FakeHistoryReader {
	return &FakeHistoryReader{trace: []string{}}
}

func (f *FakeHistoryReader) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeHistoryReader) SnapshotBounds(ctx context.Context, challengeID, playerID uuid.UUID) (*leaderboarddomain.Snapshot, *leaderboarddomain.Snapshot, error) {
	f.record("SnapshotBounds")
	if f.SnapshotBoundsFunc != nil {
		return f.SnapshotBoundsFunc(ctx, challengeID, playerID)
	}
	return nil, nil, nil
}

func (f *FakeHistoryReader) RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error) {
	f.record("RecentMatches")
	if f.RecentMatchesFunc != nil {
		return f.RecentMatchesFunc(ctx, challengeID, playerID, limit)
	}
	return nil, nil
}

func (f *FakeHistoryReader) ListSnapshots(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]PlayerSnapshot, error) {
	f.record("ListSnapshots")
	if f.ListSnapshotsFunc != nil {
		return f.ListSnapshotsFunc(ctx, challengeID, playerID)
	}
	return nil, nil
}

func (f *FakeHistoryReader) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fakes satisfy the interfaces
var (
	_ ChallengeReader = (*FakeChallengeReader)(nil)
	_ HistoryReader   = (*FakeHistoryReader)(nil)
)
