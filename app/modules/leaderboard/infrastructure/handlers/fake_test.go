package leaderboardhandlers

import (
	"context"

	"github.com/google/uuid"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	GetLeaderboardFunc    func(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Row, error)
	GetLPHistoryFunc      func(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]leaderboardservice.HistoryPoint, error)
	RenderLPChartFunc     func(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]byte, error)
	ExportLeaderboardFunc func(ctx context.Context, challengeID uuid.UUID) ([]byte, error)
	RecentMatchesFunc     func(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error)
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

func (f *FakeService) GetLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]leaderboarddomain.Row, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, challengeID)
	}
	return []leaderboarddomain.Row{}, nil
}

func (f *FakeService) GetLPHistory(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]leaderboardservice.HistoryPoint, error) {
	f.record("GetLPHistory")
	if f.GetLPHistoryFunc != nil {
		return f.GetLPHistoryFunc(ctx, challengeID, playerID)
	}
	return []leaderboardservice.HistoryPoint{}, nil
}

func (f *FakeService) RenderLPChart(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]byte, error) {
	f.record("RenderLPChart")
	if f.RenderLPChartFunc != nil {
		return f.RenderLPChartFunc(ctx, challengeID, playerID)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (f *FakeService) ExportLeaderboard(ctx context.Context, challengeID uuid.UUID) ([]byte, error) {
	f.record("ExportLeaderboard")
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, challengeID)
	}
	return []byte("PK"), nil
}

func (f *FakeService) RecentMatches(ctx context.Context, challengeID, playerID uuid.UUID, limit int) ([]leaderboarddomain.Match, error) {
	f.record("RecentMatches")
	if f.RecentMatchesFunc != nil {
		return f.RecentMatchesFunc(ctx, challengeID, playerID, limit)
	}
	return []leaderboarddomain.Match{}, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
