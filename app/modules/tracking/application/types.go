package trackingservice

import (
	"time"

	"github.com/google/uuid"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// Challenge is the slice of a challenge the tracker needs.
type Challenge struct {
	ID      uuid.UUID
	Name    string
	StartAt time.Time
	EndAt   *time.Time
}

// Contains reports whether t falls inside the challenge window.
func (c Challenge) Contains(t time.Time) bool {
	if t.Before(c.StartAt) {
		return false
	}
	return c.EndAt == nil || !t.After(*c.EndAt)
}

// Player is an active roster entry.
type Player struct {
	ID     uuid.UUID
	Name   string
	PUUID  string
	Region rankedtypes.Region
}

// SnapshotResult reports one challenge snapshot batch.
type SnapshotResult struct {
	ChallengeID uuid.UUID `json:"challengeId"`
	Inserted    int       `json:"inserted"`
	Skipped     int       `json:"skipped"`
	Errors      int       `json:"errors"`
	TakenAt     time.Time `json:"takenAt"`
}

// SyncReport summarizes a SyncActiveChallenges pass.
type SyncReport struct {
	Challenges int       `json:"challenges"`
	Inserted   int       `json:"inserted"`
	Matches    int       `json:"matches"`
	Errors     int       `json:"errors"`
	Timestamp  time.Time `json:"timestamp"`
}
