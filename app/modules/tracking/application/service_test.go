package trackingservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soloq-club/soloq-tracker/app/events"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/metrics"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2027, 6, 5, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	repo       *FakeTrackingRepo
	challenges *FakeChallengeSource
	riot       *FakeRankSource
	publisher  *FakePublisher
}

func newTestService(t *testing.T) (*TrackingService, *testDeps) {
	t.Helper()
	deps := &testDeps{
		repo:       NewFakeTrackingRepo(),
		challenges: &FakeChallengeSource{},
		riot:       NewFakeRankSource(),
		publisher:  &FakePublisher{},
	}
	svc := NewTrackingService(
		deps.repo,
		deps.challenges,
		deps.riot,
		deps.publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		WithClock(func() time.Time { return fixedNow }),
		WithMatchWindow(20),
	)
	return svc, deps
}

func roster() []Player {
	return []Player{
		{ID: uuid.New(), Name: "ranked", PUUID: "p-ranked", Region: rankedtypes.RegionEUW},
		{ID: uuid.New(), Name: "unranked", PUUID: "p-unranked", Region: rankedtypes.RegionEUW},
		{ID: uuid.New(), Name: "broken", PUUID: "p-broken", Region: rankedtypes.RegionNA},
	}
}

func runningChallenge(deps *testDeps, c Challenge, players []Player) {
	deps.challenges.RunningChallengesFunc = func(context.Context, time.Time) ([]Challenge, error) {
		return []Challenge{c}, nil
	}
	deps.challenges.ActivePlayersFunc = func(context.Context, uuid.UUID) ([]Player, error) { return players, nil }
}

func matchIDs(matches []trackingdb.PlayerMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	return ids
}

func TestSnapshotChallenge(t *testing.T) {
	svc, deps := newTestService(t)
	challengeID := uuid.New()
	players := roster()

	deps.challenges.ActivePlayersFunc = func(_ context.Context, id uuid.UUID) ([]Player, error) {
		if id != challengeID {
			t.Errorf("ActivePlayers called with %s, want %s", id, challengeID)
		}
		return players, nil
	}
	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "II", LP: 55}
	deps.riot.EntryErr["p-broken"] = errors.New("timeout")

	res, err := svc.SnapshotChallenge(context.Background(), "owner-1", challengeID)
	if err != nil {
		t.Fatalf("SnapshotChallenge() error = %v", err)
	}
	want := &SnapshotResult{ChallengeID: challengeID, Inserted: 1, Skipped: 1, Errors: 1, TakenAt: fixedNow}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("SnapshotChallenge() = %+v, want %+v", res, want)
	}

	if len(deps.repo.Snapshots) != 1 {
		t.Fatalf("stored %d snapshots, want 1", len(deps.repo.Snapshots))
	}
	snap := deps.repo.Snapshots[0]
	if snap.PlayerID != players[0].ID || snap.Tier != "GOLD" || snap.Division != "II" || snap.LP != 55 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if !snap.TakenAt.Equal(fixedNow) {
		t.Errorf("TakenAt = %v, want %v", snap.TakenAt, fixedNow)
	}

	wantTopics := []string{
		events.RankSnapshotsRecordedV1,
		events.RankSnapshotsRecordedV1 + "." + challengeID.String(),
	}
	if !reflect.DeepEqual(deps.publisher.Topics, wantTopics) {
		t.Errorf("published topics = %v, want %v", deps.publisher.Topics, wantTopics)
	}
	if deps.publisher.Messages[0].UUID == deps.publisher.Messages[1].UUID {
		t.Error("each published copy needs its own message id")
	}

	var payload events.RankSnapshotsRecordedPayloadV1
	if err := json.Unmarshal(deps.publisher.Messages[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ChallengeID != challengeID || payload.Inserted != 1 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestSnapshotChallengeFailures(t *testing.T) {
	challengeID := uuid.New()

	tests := []struct {
		name      string
		setup     func(d *testDeps)
		wantErr   error
		wantTrace []string
	}{
		{
			name: "caller cannot manage challenge",
			setup: func(d *testDeps) {
				d.challenges.AuthorizeFunc = func(context.Context, string, uuid.UUID) error { return ErrForbidden }
			},
			wantErr:   ErrForbidden,
			wantTrace: []string{},
		},
		{
			name: "challenge missing",
			setup: func(d *testDeps) {
				d.challenges.AuthorizeFunc = func(context.Context, string, uuid.UUID) error { return ErrChallengeNotFound }
			},
			wantErr:   ErrChallengeNotFound,
			wantTrace: []string{},
		},
		{
			name: "riot key rejected aborts batch",
			setup: func(d *testDeps) {
				d.challenges.ActivePlayersFunc = func(context.Context, uuid.UUID) ([]Player, error) { return roster(), nil }
				d.riot.EntryErr["p-ranked"] = riotclient.ErrForbidden
			},
			wantErr:   riotclient.ErrForbidden,
			wantTrace: []string{},
		},
		{
			name: "store failure",
			setup: func(d *testDeps) {
				d.challenges.ActivePlayersFunc = func(context.Context, uuid.UUID) ([]Player, error) { return roster(), nil }
				d.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "II"}
				d.repo.InsertSnapshotsFunc = func(context.Context, bun.IDB, []trackingdb.RankSnapshot) (int, error) {
					return 0, errors.New("db down")
				}
			},
			wantTrace: []string{"InsertSnapshots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			tt.setup(deps)

			_, err := svc.SnapshotChallenge(context.Background(), "user-1", challengeID)
			if err == nil {
				t.Fatal("SnapshotChallenge() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("SnapshotChallenge() error = %v, want %v", err, tt.wantErr)
			}
			if got := deps.repo.Trace(); !reflect.DeepEqual(got, tt.wantTrace) {
				t.Errorf("repo trace = %v, want %v", got, tt.wantTrace)
			}
			if len(deps.publisher.Topics) != 0 {
				t.Errorf("nothing should be published, got %v", deps.publisher.Topics)
			}
		})
	}
}

func TestSnapshotChallengePublishFailureIsNotFatal(t *testing.T) {
	svc, deps := newTestService(t)
	deps.publisher.Err = errors.New("nats down")
	deps.challenges.ActivePlayersFunc = func(context.Context, uuid.UUID) ([]Player, error) { return roster()[:1], nil }
	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "IRON", Division: "IV"}

	res, err := svc.SnapshotChallenge(context.Background(), "owner-1", uuid.New())
	if err != nil {
		t.Fatalf("SnapshotChallenge() error = %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", res.Inserted)
	}
}

func TestSystemSnapshot(t *testing.T) {
	t.Run("missing challenge", func(t *testing.T) {
		svc, deps := newTestService(t)
		_, err := svc.SystemSnapshot(context.Background(), uuid.New())
		if !errors.Is(err, ErrChallengeNotFound) {
			t.Errorf("SystemSnapshot() error = %v, want ErrChallengeNotFound", err)
		}
		if len(deps.repo.Trace()) != 0 {
			t.Errorf("repo should not be touched, trace %v", deps.repo.Trace())
		}
	})

	t.Run("skips role check", func(t *testing.T) {
		svc, deps := newTestService(t)
		id := uuid.New()
		deps.challenges.AuthorizeFunc = func(context.Context, string, uuid.UUID) error {
			t.Fatal("Authorize must not be called")
			return nil
		}
		deps.challenges.GetChallengeFunc = func(context.Context, uuid.UUID) (*Challenge, error) {
			return &Challenge{ID: id}, nil
		}
		deps.challenges.ActivePlayersFunc = func(context.Context, uuid.UUID) ([]Player, error) { return roster()[:1], nil }
		deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "SILVER", Division: "I", LP: 99}

		res, err := svc.SystemSnapshot(context.Background(), id)
		if err != nil {
			t.Fatalf("SystemSnapshot() error = %v", err)
		}
		if res.Inserted != 1 {
			t.Errorf("Inserted = %d, want 1", res.Inserted)
		}
	})
}

func TestSyncActiveChallenges(t *testing.T) {
	svc, deps := newTestService(t)
	start := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	challenge := Challenge{ID: uuid.New(), Name: "June", StartAt: start}
	players := roster()[:2]

	runningChallenge(deps, challenge, players)
	deps.challenges.RunningChallengesFunc = func(_ context.Context, at time.Time) ([]Challenge, error) {
		if !at.Equal(fixedNow) {
			t.Errorf("RunningChallenges at %v, want %v", at, fixedNow)
		}
		return []Challenge{challenge}, nil
	}
	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "I", LP: 10}
	deps.riot.MatchIDs["p-ranked"] = []string{"M3", "M2", "M1"}
	deps.riot.Outcomes["p-ranked/M3"] = matchOutcome{outcome: rankedtypes.OutcomeWin, playedAt: start.Add(48 * time.Hour)}
	deps.riot.Outcomes["p-ranked/M2"] = matchOutcome{outcome: rankedtypes.OutcomeLoss, playedAt: start.Add(-time.Hour)}
	deps.repo.KnownMatchIDsFunc = func(_ context.Context, _ bun.IDB, _, _ uuid.UUID, ids []string) (map[string]struct{}, error) {
		if want := []string{"M3", "M2", "M1"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("KnownMatchIDs ids = %v, want %v", ids, want)
		}
		return map[string]struct{}{"M1": {}}, nil
	}

	report, err := svc.SyncActiveChallenges(context.Background())
	if err != nil {
		t.Fatalf("SyncActiveChallenges() error = %v", err)
	}
	want := &SyncReport{Challenges: 1, Inserted: 1, Matches: 1, Errors: 0, Timestamp: fixedNow}
	if !reflect.DeepEqual(report, want) {
		t.Errorf("SyncActiveChallenges() = %+v, want %+v", report, want)
	}

	if want := []string{"M3", "M2"}; !reflect.DeepEqual(deps.riot.OutcomeCalls, want) {
		t.Errorf("outcome lookups = %v, want %v", deps.riot.OutcomeCalls, want)
	}
	if len(deps.repo.Matches) != 1 {
		t.Fatalf("stored %d matches, want 1", len(deps.repo.Matches))
	}
	m := deps.repo.Matches[0]
	if m.MatchID != "M3" || m.Result != "WIN" || m.PlayerID != players[0].ID {
		t.Errorf("unexpected match %+v", m)
	}
	if len(deps.repo.Skipped) != 1 || deps.repo.Skipped[0].MatchID != "M2" || deps.repo.Skipped[0].Reason != trackingdb.SkipReasonOutsideWindow {
		t.Errorf("M2 should be skipped as outside the window, got %+v", deps.repo.Skipped)
	}

	// stored and skipped IDs are not looked up again
	deps.repo.KnownMatchIDsFunc = func(_ context.Context, _ bun.IDB, _, _ uuid.UUID, _ []string) (map[string]struct{}, error) {
		known := map[string]struct{}{"M1": {}}
		for _, m := range deps.repo.Matches {
			known[m.MatchID] = struct{}{}
		}
		for _, m := range deps.repo.Skipped {
			known[m.MatchID] = struct{}{}
		}
		return known, nil
	}
	deps.riot.OutcomeCalls = nil
	if _, err := svc.SyncActiveChallenges(context.Background()); err != nil {
		t.Fatalf("second SyncActiveChallenges() error = %v", err)
	}
	if len(deps.riot.OutcomeCalls) != 0 {
		t.Errorf("second pass looked up %v, want nothing", deps.riot.OutcomeCalls)
	}
}

func TestSyncMatchesKeepsGoodOutcomesWhenOneLookupFails(t *testing.T) {
	svc, deps := newTestService(t)
	start := fixedNow.Add(-72 * time.Hour)
	player := roster()[0]
	runningChallenge(deps, Challenge{ID: uuid.New(), StartAt: start}, []Player{player})

	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "I"}
	deps.riot.MatchIDs["p-ranked"] = []string{"M3", "M2", "M1"}
	deps.riot.Outcomes["p-ranked/M3"] = matchOutcome{outcome: rankedtypes.OutcomeWin, playedAt: start.Add(3 * time.Hour)}
	deps.riot.Outcomes["p-ranked/M2"] = matchOutcome{outcome: rankedtypes.OutcomeWin, playedAt: start.Add(2 * time.Hour)}
	deps.riot.Outcomes["p-ranked/M1"] = matchOutcome{err: errors.New("player not found in match M1")}

	passes := []struct {
		matches int
		errors  int
	}{
		{matches: 2, errors: 1},
		{matches: 0, errors: 1},
		{matches: 0, errors: 1},
	}
	for i, want := range passes {
		report, err := svc.SyncActiveChallenges(context.Background())
		if err != nil {
			t.Fatalf("pass %d: SyncActiveChallenges() error = %v", i, err)
		}
		if report.Matches != want.matches || report.Errors != want.errors {
			t.Errorf("pass %d: matches=%d errors=%d, want matches=%d errors=%d",
				i, report.Matches, report.Errors, want.matches, want.errors)
		}
	}

	if want := []string{"M3", "M2"}; !reflect.DeepEqual(matchIDs(deps.repo.Matches), want) {
		t.Errorf("stored matches = %v, want %v", matchIDs(deps.repo.Matches), want)
	}
	if want := []string{"M3", "M2", "M1", "M1", "M1"}; !reflect.DeepEqual(deps.riot.OutcomeCalls, want) {
		t.Errorf("outcome lookups = %v, want %v", deps.riot.OutcomeCalls, want)
	}
}

func TestSyncMatchesStopsOnRejectedKeyDuringLookup(t *testing.T) {
	svc, deps := newTestService(t)
	start := fixedNow.Add(-24 * time.Hour)
	runningChallenge(deps, Challenge{ID: uuid.New(), StartAt: start}, roster()[:1])

	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "I"}
	deps.riot.MatchIDs["p-ranked"] = []string{"M2", "M1"}
	deps.riot.Outcomes["p-ranked/M2"] = matchOutcome{err: riotclient.ErrForbidden}
	deps.riot.Outcomes["p-ranked/M1"] = matchOutcome{outcome: rankedtypes.OutcomeWin, playedAt: start.Add(time.Hour)}

	_, err := svc.SyncActiveChallenges(context.Background())
	if !errors.Is(err, riotclient.ErrForbidden) {
		t.Fatalf("SyncActiveChallenges() error = %v, want ErrForbidden", err)
	}
	if want := []string{"M2"}; !reflect.DeepEqual(deps.riot.OutcomeCalls, want) {
		t.Errorf("outcome lookups = %v, want %v", deps.riot.OutcomeCalls, want)
	}
}

func TestSyncMatchesSkipsRemakes(t *testing.T) {
	svc, deps := newTestService(t)
	start := fixedNow.Add(-24 * time.Hour)
	runningChallenge(deps, Challenge{ID: uuid.New(), StartAt: start}, roster()[:1])

	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "I"}
	deps.riot.MatchIDs["p-ranked"] = []string{"M2", "M1"}
	deps.riot.Outcomes["p-ranked/M2"] = matchOutcome{outcome: rankedtypes.OutcomeRemake, playedAt: start.Add(2 * time.Hour)}
	deps.riot.Outcomes["p-ranked/M1"] = matchOutcome{outcome: rankedtypes.OutcomeLoss, playedAt: start.Add(time.Hour)}

	for i := 0; i < 2; i++ {
		if _, err := svc.SyncActiveChallenges(context.Background()); err != nil {
			t.Fatalf("SyncActiveChallenges() error = %v", err)
		}
	}

	for _, m := range deps.repo.Matches {
		if m.Result != "WIN" && m.Result != "LOSS" {
			t.Errorf("match %s stored with unscored result %q", m.MatchID, m.Result)
		}
	}
	if want := []string{"M1"}; !reflect.DeepEqual(matchIDs(deps.repo.Matches), want) {
		t.Errorf("stored matches = %v, want %v", matchIDs(deps.repo.Matches), want)
	}
	if len(deps.repo.Skipped) != 1 || deps.repo.Skipped[0].Reason != trackingdb.SkipReasonRemake {
		t.Errorf("remake should be skipped once, got %+v", deps.repo.Skipped)
	}
	if want := []string{"M2", "M1"}; !reflect.DeepEqual(deps.riot.OutcomeCalls, want) {
		t.Errorf("remake must not be fetched twice, lookups = %v", deps.riot.OutcomeCalls)
	}
}

func TestSyncActiveChallengesCountsErrorsAndContinues(t *testing.T) {
	svc, deps := newTestService(t)
	good := Challenge{ID: uuid.New(), StartAt: fixedNow.Add(-24 * time.Hour)}
	bad := Challenge{ID: uuid.New(), StartAt: fixedNow.Add(-24 * time.Hour)}

	deps.challenges.RunningChallengesFunc = func(context.Context, time.Time) ([]Challenge, error) {
		return []Challenge{bad, good}, nil
	}
	deps.challenges.ActivePlayersFunc = func(_ context.Context, id uuid.UUID) ([]Player, error) {
		if id == bad.ID {
			return nil, errors.New("db hiccup")
		}
		return roster()[:1], nil
	}
	deps.riot.Entries["p-ranked"] = &riotclient.Entry{Tier: "GOLD", Division: "I"}
	deps.riot.IDsErr = errors.New("riot 500")

	report, err := svc.SyncActiveChallenges(context.Background())
	if err != nil {
		t.Fatalf("SyncActiveChallenges() error = %v", err)
	}
	if report.Challenges != 2 || report.Inserted != 1 || report.Errors != 2 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestSyncActiveChallengesStopsOnRejectedKey(t *testing.T) {
	svc, deps := newTestService(t)
	runningChallenge(deps, Challenge{ID: uuid.New(), StartAt: fixedNow.Add(-time.Hour)}, roster()[:1])
	deps.riot.EntryErr["p-ranked"] = riotclient.ErrForbidden

	_, err := svc.SyncActiveChallenges(context.Background())
	if !errors.Is(err, riotclient.ErrForbidden) {
		t.Errorf("SyncActiveChallenges() error = %v, want ErrForbidden", err)
	}
}

func TestSyncActiveChallengesListFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.challenges.RunningChallengesFunc = func(context.Context, time.Time) ([]Challenge, error) {
		return nil, errors.New("db down")
	}

	if _, err := svc.SyncActiveChallenges(context.Background()); err == nil {
		t.Error("SyncActiveChallenges() expected error")
	}
}

func TestChallengeContains(t *testing.T) {
	start := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	tests := []struct {
		name string
		c    Challenge
		at   time.Time
		want bool
	}{
		{"before start", Challenge{StartAt: start, EndAt: &end}, start.Add(-time.Second), false},
		{"at start", Challenge{StartAt: start, EndAt: &end}, start, true},
		{"at end", Challenge{StartAt: start, EndAt: &end}, end, true},
		{"after end", Challenge{StartAt: start, EndAt: &end}, end.Add(time.Second), false},
		{"open ended", Challenge{StartAt: start}, start.Add(1000 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
