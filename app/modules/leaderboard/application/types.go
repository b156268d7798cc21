package leaderboardservice

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	leaderboarddomain "github.com/soloq-club/soloq-tracker/app/modules/leaderboard/domain"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

const (
	// DefaultRecentMatches is the page size of the recent matches view.
	DefaultRecentMatches = 5
	maxRecentMatches     = leaderboarddomain.MatchWindow

	historyTimeLayout = "02/01 15:04"
)

// ChallengeInfo is the part of a challenge the leaderboard needs.
type ChallengeInfo struct {
	ID      uuid.UUID
	Name    string
	Rule    rankedtypes.Rule
	StartAt time.Time
	EndAt   *time.Time
}

// PlayerSnapshot is a snapshot tagged with its owner.
type PlayerSnapshot struct {
	PlayerID   uuid.UUID
	PlayerName string
	leaderboarddomain.Snapshot
}

// HistoryPoint is one minute bucket of the LP timeline.
type HistoryPoint struct {
	Time   string
	At     time.Time
	Values map[string]int
}

// MarshalJSON renders {"time": "...", "<player>": lp, ...}.
func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Values)+1)
	for name, lp := range p.Values {
		out[name] = lp
	}
	out["time"] = p.Time
	return json.Marshal(out)
}

// ChartPalette holds the colours used by the LP chart.
type ChartPalette struct {
	Background string
	Text       string
	Lines      []string
}

// DefaultPalette is used when no palette is configured.
var DefaultPalette = ChartPalette{
	Background: "0f172a",
	Text:       "e2e8f0",
	Lines:      []string{"38bdf8", "f59e0b", "22c55e", "ef4444", "a855f7", "ec4899", "14b8a6", "eab308"},
}
