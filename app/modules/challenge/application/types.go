package challengeservice

import (
	"time"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
)

const (
	minNameLength    = 3
	maxPlayersPerAdd = 50

	reasonDuplicate = "duplicate"

	// truncatedPUUIDLength is how much of a puuid is shown when no summoner name is known.
	truncatedPUUIDLength = 12
)

// CreateChallengeInput is the payload for CreateChallenge. Dates accept RFC3339
// or English phrases such as "tomorrow 18:00".
type CreateChallengeInput struct {
	Name        string `json:"name"`
	RankingRule string `json:"ranking_rule"`
	Visibility  string `json:"visibility"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
}

// UpdateChallengeInput carries the fields to change. Nil fields are kept.
// An empty EndAt clears the end date.
type UpdateChallengeInput struct {
	Name        *string `json:"name"`
	RankingRule *string `json:"ranking_rule"`
	Visibility  *string `json:"visibility"`
	StartAt     *string `json:"start_at"`
	EndAt       *string `json:"end_at"`
}

// ListChallengesInput filters ListChallenges.
type ListChallengesInput struct {
	Visibility string
	Limit      int
}

// ChallengeView is the public shape of a challenge.
type ChallengeView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	RankingRule string     `json:"ranking_rule"`
	Visibility  string     `json:"visibility"`
	OwnerID     string     `json:"owner_id"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PlayerView is the public shape of a roster entry.
type PlayerView struct {
	ID            uuid.UUID `json:"id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	Name          string    `json:"name"`
	Region        string    `json:"region"`
	PUUID         string    `json:"puuid"`
	Team          *string   `json:"team"`
	ProfileIconID *int      `json:"profile_icon_id"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlayerInput identifies one account to add. Exactly one of SummonerName,
// RiotID or PUUID is used, checked in that order.
type PlayerInput struct {
	Region       string  `json:"region"`
	SummonerName string  `json:"summonerName,omitempty"`
	RiotID       string  `json:"riotId,omitempty"`
	PUUID        string  `json:"puuid,omitempty"`
	Team         *string `json:"team,omitempty"`
}

// InsertedPlayer is an input that produced a new roster entry.
type InsertedPlayer struct {
	PlayerInput
	ID            uuid.UUID `json:"id"`
	ResolvedPUUID string    `json:"resolvedPuuid"`
	Name          string    `json:"name"`
}

// SkippedPlayer is an input whose account was already on the roster.
type SkippedPlayer struct {
	PlayerInput
	ResolvedPUUID string `json:"resolvedPuuid"`
	Reason        string `json:"reason"`
}

// FailedPlayer is an input that could not be resolved or stored.
type FailedPlayer struct {
	PlayerInput
	Reason string `json:"reason"`
}

// AddPlayersResult partitions AddPlayers inputs by outcome.
type AddPlayersResult struct {
	Inserted []InsertedPlayer `json:"inserted"`
	Skipped  []SkippedPlayer  `json:"skipped"`
	Failed   []FailedPlayer   `json:"failed"`
}

func toChallengeView(c *challengedb.Challenge) *ChallengeView {
	return &ChallengeView{
		ID:          c.ID,
		Name:        c.Name,
		RankingRule: c.RankingRule,
		Visibility:  c.Visibility,
		OwnerID:     c.OwnerID,
		StartAt:     c.StartAt,
		EndAt:       c.EndAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toPlayerView(p *challengedb.Player) PlayerView {
	return PlayerView{
		ID:            p.ID,
		ChallengeID:   p.ChallengeID,
		Name:          p.Name,
		Region:        p.Region,
		PUUID:         p.PUUID,
		Team:          p.Team,
		ProfileIconID: p.ProfileIconID,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

// Account is a Riot account identity.
type Account struct {
	PUUID    string
	GameName string
	TagLine  string
}

// Summoner is a League profile on a platform.
type Summoner struct {
	ID            string
	PUUID         string
	Name          string
	ProfileIconID int
}
