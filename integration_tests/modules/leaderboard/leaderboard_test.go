package leaderboard_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/application"
	leaderboardadapters "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/infrastructure/adapters"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/metrics"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/soloq-club/soloq-tracker/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newService(challenges challengedb.Repository, tracking trackingdb.Repository) leaderboardservice.Service {
	return leaderboardservice.NewLeaderboardService(
		leaderboardadapters.NewChallengeReaderAdapter(challenges),
		leaderboardadapters.NewHistoryReaderAdapter(tracking),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
	)
}

func TestLeaderboard_EndToEnd(t *testing.T) {
	tdb := testutils.SetupDB(t)
	ctx := context.Background()
	challenges := challengedb.NewRepository(tdb.DB)
	tracking := trackingdb.NewRepository(tdb.DB)
	gen := testutils.NewTestDataGenerator(3)
	now := time.Date(2027, 6, 5, 12, 0, 0, 0, time.UTC)

	ch := gen.Challenge("owner", rankedtypes.RuleLPGained, now)
	require.NoError(t, challenges.CreateChallenge(ctx, nil, ch))
	players := gen.Players(ch.ID, 4)
	for i := range players {
		require.NoError(t, challenges.InsertPlayer(ctx, nil, &players[i]))
	}
	require.NoError(t, challenges.SetPlayerActive(ctx, nil, ch.ID, players[3].ID, false))

	start := now.Add(-48 * time.Hour)
	_, err := tracking.InsertSnapshots(ctx, nil, []trackingdb.RankSnapshot{
		gen.Snapshot(players[0], 10, start),
		gen.Snapshot(players[0], 60, now),
		gen.Snapshot(players[1], 20, start),
		gen.Snapshot(players[1], 5, now),
		gen.Snapshot(players[3], 0, start),
		gen.Snapshot(players[3], 90, now),
	})
	require.NoError(t, err)
	_, err = tracking.InsertMatches(ctx, nil, gen.Matches(players[0], 4, 1, now))
	require.NoError(t, err)

	svc := newService(challenges, tracking)

	rows, err := svc.GetLeaderboard(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3, "inactive players are excluded")

	assert.Equal(t, players[0].ID, rows[0].PlayerID)
	assert.Equal(t, 50, rows[0].LPGained)
	assert.Equal(t, 4, rows[0].Wins)
	assert.Equal(t, 1, rows[0].Losses)
	assert.Equal(t, "+50 LP", rows[0].RankLabel())

	assert.Equal(t, players[2].ID, rows[1].PlayerID, "no snapshots scores zero")
	assert.Equal(t, "N/A", rows[1].MainRank)

	assert.Equal(t, players[1].ID, rows[2].PlayerID)
	assert.Equal(t, -15, rows[2].LPGained)

	recent, err := svc.RecentMatches(ctx, ch.ID, players[0].ID, 0)
	require.NoError(t, err)
	assert.Len(t, recent, leaderboardservice.DefaultRecentMatches)

	history, err := svc.GetLPHistory(ctx, ch.ID, &players[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10, history[0].Values[players[0].Name])
	assert.Equal(t, 60, history[1].Values[players[0].Name])

	xlsx, err := svc.ExportLeaderboard(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(xlsx[:2]))
}

func TestLeaderboard_UnknownChallenge(t *testing.T) {
	tdb := testutils.SetupDB(t)
	svc := newService(challengedb.NewRepository(tdb.DB), trackingdb.NewRepository(tdb.DB))

	_, err := svc.GetLeaderboard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, leaderboardservice.ErrChallengeNotFound)
}
