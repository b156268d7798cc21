// Package events declares the NATS topics and payloads shared between modules.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RankSnapshotsRecordedV1 is published after a batch of rank snapshots is stored for a challenge.
	RankSnapshotsRecordedV1 = "rank.snapshots.recorded.v1"
	// ChallengeSyncRequestedV1 asks the tracker to snapshot one challenge now.
	ChallengeSyncRequestedV1 = "challenge.sync.requested.v1"
)

// Stream names and the subjects they capture.
const (
	RankStreamName      = "rank"
	ChallengeStreamName = "challenge"
)

// StreamSubjects maps each JetStream stream to its subject filter.
var StreamSubjects = map[string]string{
	RankStreamName:      "rank.>",
	ChallengeStreamName: "challenge.>",
}

// RankSnapshotsRecordedPayloadV1 is the payload of RankSnapshotsRecordedV1.
type RankSnapshotsRecordedPayloadV1 struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	Inserted    int       `json:"inserted"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ChallengeSyncRequestedPayloadV1 is the payload of ChallengeSyncRequestedV1.
type ChallengeSyncRequestedPayloadV1 struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
}
