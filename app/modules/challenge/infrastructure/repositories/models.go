package challengedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Challenge is a ranked competition over a time window.
type Challenge struct {
	bun.BaseModel `bun:"table:challenges,alias:c"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	Name          string     `bun:"name,notnull"`
	RankingRule   string     `bun:"ranking_rule,notnull"`
	Visibility    string     `bun:"visibility,notnull,default:'public'"`
	OwnerID       string     `bun:"owner_id,notnull"`
	StartAt       time.Time  `bun:"start_at,notnull"`
	EndAt         *time.Time `bun:"end_at,nullzero"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Member links a user to a challenge with a role.
type Member struct {
	bun.BaseModel `bun:"table:challenge_members,alias:cm"`
	ChallengeID   uuid.UUID `bun:"challenge_id,pk,type:uuid"`
	UserID        string    `bun:"user_id,pk"`
	Role          string    `bun:"role,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Player is a roster entry. (challenge_id, puuid) is unique.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	ChallengeID   uuid.UUID `bun:"challenge_id,notnull,type:uuid"`
	Name          string    `bun:"name,notnull"`
	Region        string    `bun:"region,notnull"`
	PUUID         string    `bun:"puuid,notnull"`
	SummonerID    *string   `bun:"summoner_id,nullzero"`
	ProfileIconID *int      `bun:"profile_icon_id,nullzero"`
	Team          *string   `bun:"team,nullzero"`
	Active        bool      `bun:"active,notnull,default:true"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
