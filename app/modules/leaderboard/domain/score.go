package leaderboarddomain

import (
	"fmt"

	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// NoDataLabel is shown when a rank-ranked player has no snapshot yet.
const NoDataLabel = "No data"

// Score is the rule-specific standing of one player. Exactly one implementation
// exists per scoring rule, so keys from different rules are never mixed.
type Score interface {
	Rule() rankedtypes.Rule
	// Key is the numeric ordering key; larger ranks higher.
	Key() float64
	Label() string

	sealed()
}

// RankScore ranks by the latest snapshot's ladder position.
type RankScore struct {
	Tier     string
	Division string
	LP       int
	HasData  bool
}

func (s RankScore) Rule() rankedtypes.Rule { return rankedtypes.RuleFreshRank }

func (s RankScore) Key() float64 {
	if !s.HasData {
		return 0
	}
	return Ordinal(s.Tier, s.Division, s.LP)
}

func (s RankScore) Label() string {
	if !s.HasData {
		return NoDataLabel
	}
	return fmt.Sprintf("%s %s (%d LP)", s.Tier, s.Division, s.LP)
}

func (RankScore) sealed() {}

// WinLossScore ranks by wins, then winrate, then games played.
type WinLossScore struct {
	Wins   int
	Losses int
}

func (s WinLossScore) Rule() rankedtypes.Rule { return rankedtypes.RuleWinsLosses }

// Games is wins plus losses.
func (s WinLossScore) Games() int { return s.Wins + s.Losses }

// Winrate returns the win fraction in [0, 1]; 0 when no games were played.
func (s WinLossScore) Winrate() float64 {
	if s.Games() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games())
}

// Key is wins*10000 + winrate%*100 + losses. Sorting does not rely on it; see SortRows.
func (s WinLossScore) Key() float64 {
	return float64(s.Wins)*10000 + s.Winrate()*100*100 + float64(s.Losses)
}

func (s WinLossScore) Label() string {
	return fmt.Sprintf("%dW %dL (%.1f%%)", s.Wins, s.Losses, s.Winrate()*100)
}

func (WinLossScore) sealed() {}

// LPDeltaScore ranks by LP gained between the first and last snapshot.
type LPDeltaScore struct {
	Delta int
}

func (s LPDeltaScore) Rule() rankedtypes.Rule { return rankedtypes.RuleLPGained }

func (s LPDeltaScore) Key() float64 { return float64(s.Delta) }

func (s LPDeltaScore) Label() string {
	if s.Delta > 0 {
		return fmt.Sprintf("+%d LP", s.Delta)
	}
	return fmt.Sprintf("%d LP", s.Delta)
}

func (LPDeltaScore) sealed() {}
