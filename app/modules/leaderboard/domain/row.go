package leaderboarddomain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// MatchWindow is how many of the most recent matches count towards wins and losses.
const MatchWindow = 100

// NotAvailable describes a missing initial rank.
const NotAvailable = "N/A"

// Player is a roster entry as seen by the aggregator.
type Player struct {
	ID     uuid.UUID
	Name   string
	PUUID  string
	Region string
	Team   *string
	Active bool
}

// Snapshot is a point-in-time rank observation.
type Snapshot struct {
	Tier     string
	Division string
	LP       int
	TakenAt  time.Time
}

// Describe returns "TIER DIVISION".
func (s Snapshot) Describe() string {
	return fmt.Sprintf("%s %s", s.Tier, s.Division)
}

// Match is a single scored game outcome.
type Match struct {
	MatchID  string    `json:"matchId"`
	Result   string    `json:"result"`
	PlayedAt time.Time `json:"timestamp"`
}

// PlayerHistory is everything the aggregator needs for one player.
type PlayerHistory struct {
	Player    Player
	Snapshots []Snapshot
	Matches   []Match
}

// Row is one computed leaderboard line. It is derived per request and never stored.
type Row struct {
	PlayerID    uuid.UUID
	Name        string
	Team        *string
	PUUID       *string
	Wins        int
	Losses      int
	LPGained    int
	Score       Score
	MainRank    string
	InitialRank *string
	FinalRank   *string
}

type rowJSON struct {
	PlayerID    uuid.UUID `json:"playerId"`
	Name        string    `json:"name"`
	Team        *string   `json:"team"`
	PUUID       *string   `json:"puuid"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	LPGained    int       `json:"lpGained"`
	OrdEnd      float64   `json:"ordEnd"`
	RankLabel   string    `json:"rankLabel"`
	Rule        string    `json:"rule"`
	MainRank    string    `json:"mainRank"`
	InitialRank *string   `json:"initialRank"`
	FinalRank   *string   `json:"finalRank"`
}

// MarshalJSON flattens the score into ordEnd and rankLabel.
func (r Row) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		PlayerID:    r.PlayerID,
		Name:        r.Name,
		Team:        r.Team,
		PUUID:       r.PUUID,
		Wins:        r.Wins,
		Losses:      r.Losses,
		LPGained:    r.LPGained,
		MainRank:    r.MainRank,
		InitialRank: r.InitialRank,
		FinalRank:   r.FinalRank,
	}
	if r.Score != nil {
		out.OrdEnd = r.Score.Key()
		out.RankLabel = r.Score.Label()
		out.Rule = r.Score.Rule().String()
	}
	return json.Marshal(out)
}

// Key returns the score's ordering key, 0 without a score.
func (r Row) Key() float64 {
	if r.Score == nil {
		return 0
	}
	return r.Score.Key()
}

// RankLabel returns the score's display label.
func (r Row) RankLabel() string {
	if r.Score == nil {
		return ""
	}
	return r.Score.Label()
}

// FirstAndLast picks the earliest and latest snapshot by timestamp.
// Equal timestamps keep the first one seen in input order for both ends.
func FirstAndLast(snaps []Snapshot) (first, last *Snapshot) {
	for i := range snaps {
		s := &snaps[i]
		if first == nil || s.TakenAt.Before(first.TakenAt) {
			first = s
		}
		if last == nil || s.TakenAt.After(last.TakenAt) {
			last = s
		}
	}
	return first, last
}

// RecentMatches returns at most limit matches, newest first. Input is not modified.
func RecentMatches(matches []Match, limit int) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountOutcomes counts exact "WIN" and "LOSS" results. Other values are ignored.
func CountOutcomes(matches []Match) (wins, losses int) {
	for _, m := range matches {
		switch rankedtypes.Outcome(m.Result) {
		case rankedtypes.OutcomeWin:
			wins++
		case rankedtypes.OutcomeLoss:
			losses++
		}
	}
	return wins, losses
}

// BuildRow computes the summary row of one player under rule.
func BuildRow(rule rankedtypes.Rule, h PlayerHistory) Row {
	first, last := FirstAndLast(h.Snapshots)
	wins, losses := CountOutcomes(RecentMatches(h.Matches, MatchWindow))

	lpGained := 0
	if first != nil && last != nil {
		lpGained = last.LP - first.LP
	}

	row := Row{
		PlayerID: h.Player.ID,
		Name:     h.Player.Name,
		Team:     h.Player.Team,
		Wins:     wins,
		Losses:   losses,
		LPGained: lpGained,
		MainRank: NotAvailable,
	}
	if h.Player.PUUID != "" {
		puuid := h.Player.PUUID
		row.PUUID = &puuid
	}
	if first != nil {
		initial := first.Describe()
		row.MainRank = initial
		row.InitialRank = &initial
	}
	if last != nil {
		final := last.Describe()
		row.FinalRank = &final
	}

	switch rule {
	case rankedtypes.RuleFreshRank:
		score := RankScore{}
		if last != nil {
			score = RankScore{Tier: last.Tier, Division: last.Division, LP: last.LP, HasData: true}
		}
		row.Score = score
	case rankedtypes.RuleWinsLosses:
		row.Score = WinLossScore{Wins: wins, Losses: losses}
	default:
		row.Score = LPDeltaScore{Delta: lpGained}
	}

	return row
}

// SortRows orders rows in place for rule. The sort is stable so equal rows keep input order.
func SortRows(rule rankedtypes.Rule, rows []Row) {
	if rule == rankedtypes.RuleWinsLosses {
		sort.SliceStable(rows, func(i, j int) bool {
			a := WinLossScore{Wins: rows[i].Wins, Losses: rows[i].Losses}
			b := WinLossScore{Wins: rows[j].Wins, Losses: rows[j].Losses}
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Winrate() != b.Winrate() {
				return a.Winrate() > b.Winrate()
			}
			return a.Games() > b.Games()
		})
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key() > rows[j].Key()
	})
}

// Build computes and sorts the rows for every active player.
func Build(rule rankedtypes.Rule, histories []PlayerHistory) []Row {
	rows := make([]Row, 0, len(histories))
	for _, h := range histories {
		if !h.Player.Active {
			continue
		}
		rows = append(rows, BuildRow(rule, h))
	}
	SortRows(rule, rows)
	return rows
}
