package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type row struct {
	Name      string  `json:"name"`
	Team      *string `json:"team"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	LPGained  int     `json:"lpGained"`
	RankLabel string  `json:"rankLabel"`
	MainRank  string  `json:"mainRank"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	leaderStyle = cellStyle.
			Foreground(lipgloss.Color("11")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func fetchLeaderboard(ctx context.Context, client *http.Client, baseURL, challengeID string) ([]row, error) {
	endpoint, err := url.JoinPath(baseURL, "api", "challenges", challengeID, "leaderboard")
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			return nil, fmt.Errorf("leaderboard request failed (%d): %s", resp.StatusCode, body.Error)
		}
		return nil, fmt.Errorf("leaderboard request failed (%d)", resp.StatusCode)
	}

	var payload struct {
		Leaderboard []row `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return payload.Leaderboard, nil
}

func render(rows []row) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No players yet.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "Player", "Team", "Score", "W", "L", "LP", "Start").
		StyleFunc(func(r, _ int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case r == 0:
				return leaderStyle
			default:
				return cellStyle
			}
		})

	for i, rw := range rows {
		team := "-"
		if rw.Team != nil && *rw.Team != "" {
			team = *rw.Team
		}
		t.Row(
			strconv.Itoa(i+1),
			rw.Name,
			team,
			rw.RankLabel,
			strconv.Itoa(rw.Wins),
			strconv.Itoa(rw.Losses),
			signedLP(rw.LPGained),
			rw.MainRank,
		)
	}
	return t.String()
}

func signedLP(lp int) string {
	if lp > 0 {
		return "+" + strconv.Itoa(lp)
	}
	return strconv.Itoa(lp)
}
