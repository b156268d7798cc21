package trackinghandlers

import (
	"context"

	"github.com/google/uuid"
	trackingservice "github.com/soloq-club/soloq-tracker/app/modules/tracking/application"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	SnapshotChallengeFunc    func(ctx context.Context, userID string, challengeID uuid.UUID) (*trackingservice.SnapshotResult, error)
	SystemSnapshotFunc       func(ctx context.Context, challengeID uuid.UUID) (*trackingservice.SnapshotResult, error)
	SyncActiveChallengesFunc func(ctx context.Context) (*trackingservice.SyncReport, error)
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

func (f *FakeService) SnapshotChallenge(ctx context.Context, userID string, challengeID uuid.UUID) (*trackingservice.SnapshotResult, error) {
	f.record("SnapshotChallenge")
	if f.SnapshotChallengeFunc != nil {
		return f.SnapshotChallengeFunc(ctx, userID, challengeID)
	}
	return &trackingservice.SnapshotResult{ChallengeID: challengeID}, nil
}

func (f *FakeService) SystemSnapshot(ctx context.Context, challengeID uuid.UUID) (*trackingservice.SnapshotResult, error) {
	f.record("SystemSnapshot")
	if f.SystemSnapshotFunc != nil {
		return f.SystemSnapshotFunc(ctx, challengeID)
	}
	return &trackingservice.SnapshotResult{ChallengeID: challengeID}, nil
}

func (f *FakeService) SyncActiveChallenges(ctx context.Context) (*trackingservice.SyncReport, error) {
	f.record("SyncActiveChallenges")
	if f.SyncActiveChallengesFunc != nil {
		return f.SyncActiveChallengesFunc(ctx)
	}
	return &trackingservice.SyncReport{}, nil
}

var _ trackingservice.Service = (*FakeService)(nil)
