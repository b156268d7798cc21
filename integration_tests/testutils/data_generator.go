package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	trackingdb "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// TestDataGenerator builds randomized but valid rows for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator. A fixed seed makes runs repeatable.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed in use so failures can be replayed.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// Challenge returns a challenge owned by ownerID that started a week before now.
func (g *TestDataGenerator) Challenge(ownerID string, rule rankedtypes.Rule, now time.Time) *challengedb.Challenge {
	return &challengedb.Challenge{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("%s %s cup", g.faker.Adjective(), g.faker.Animal()),
		RankingRule: string(rule),
		Visibility:  string(rankedtypes.VisibilityPublic),
		OwnerID:     ownerID,
		StartAt:     now.Add(-7 * 24 * time.Hour).UTC().Truncate(time.Second),
	}
}

// Players returns count active roster entries for challengeID with distinct puuids.
func (g *TestDataGenerator) Players(challengeID uuid.UUID, count int) []challengedb.Player {
	regions := []rankedtypes.Region{rankedtypes.RegionEUW, rankedtypes.RegionNA, rankedtypes.RegionKR}
	players := make([]challengedb.Player, count)
	for i := range players {
		players[i] = challengedb.Player{
			ID:          uuid.New(),
			ChallengeID: challengeID,
			Name:        fmt.Sprintf("%s%d", g.faker.Username(), i),
			Region:      string(regions[g.faker.Number(0, len(regions)-1)]),
			PUUID:       g.faker.UUID(),
			Active:      true,
		}
	}
	return players
}

// Snapshot returns a snapshot for player at takenAt with a random Gold or Platinum rank.
func (g *TestDataGenerator) Snapshot(p challengedb.Player, lp int, takenAt time.Time) trackingdb.RankSnapshot {
	tiers := []string{"GOLD", "PLATINUM"}
	divisions := []string{"IV", "III", "II", "I"}
	return trackingdb.RankSnapshot{
		ChallengeID: p.ChallengeID,
		PlayerID:    p.ID,
		Tier:        tiers[g.faker.Number(0, len(tiers)-1)],
		Division:    divisions[g.faker.Number(0, len(divisions)-1)],
		LP:          lp,
		TakenAt:     takenAt.UTC(),
	}
}

// Matches returns wins then losses for player, one per hour before end.
func (g *TestDataGenerator) Matches(p challengedb.Player, wins, losses int, end time.Time) []trackingdb.PlayerMatch {
	out := make([]trackingdb.PlayerMatch, 0, wins+losses)
	for i := 0; i < wins+losses; i++ {
		result := rankedtypes.OutcomeWin
		if i >= wins {
			result = rankedtypes.OutcomeLoss
		}
		out = append(out, trackingdb.PlayerMatch{
			ChallengeID: p.ChallengeID,
			PlayerID:    p.ID,
			MatchID:     fmt.Sprintf("EUW1_%d", g.faker.Number(1_000_000, 9_999_999)*100+i),
			Result:      string(result),
			PlayedAt:    end.Add(-time.Duration(i+1) * time.Hour).UTC(),
		})
	}
	return out
}
