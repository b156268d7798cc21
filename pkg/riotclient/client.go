// Package riotclient talks to the Riot Games HTTP API.
package riotclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

// ErrForbidden is returned when Riot rejects the API key.
var ErrForbidden = errors.New("Riot API key invalid/expired (403). Regenerate your development key")

const (
	tokenHeader     = "X-Riot-Token"
	rankedSoloQueue = "RANKED_SOLO_5x5"
	rankedSoloID    = 420
	maxMatchIDs     = 100
)

// Limiter gates every outgoing request. Keys name the queried identity:
// a PUUID, or the Riot ID or summoner name before resolution.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Client is a Riot API client. A nil Limiter disables request spacing.
type Client struct {
	apiKey  string
	http    *http.Client
	limiter Limiter
	// hostFor builds the scheme and host for a routing value such as "euw1" or "europe".
	hostFor func(routing string) string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLimiter sets the request limiter.
func WithLimiter(l Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// WithBaseURL sends every request to base regardless of routing. Used against test servers.
func WithBaseURL(base string) Option {
	base = strings.TrimRight(base, "/")
	return func(cl *Client) { cl.hostFor = func(string) string { return base } }
}

// New creates a Client.
func New(apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		hostFor: func(routing string) string {
			return "https://" + routing + ".api.riotgames.com"
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Account is a Riot account.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is a League of Legends summoner profile.
type Summoner struct {
	ID            string `json:"id"`
	PUUID         string `json:"puuid"`
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
}

// Entry is a player's ranked standing in one queue.
type Entry struct {
	Tier     string
	Division string
	LP       int
}

type leagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
}

type match struct {
	Info struct {
		GameEndTimestamp int64 `json:"gameEndTimestamp"`
		GameCreation     int64 `json:"gameCreation"`
		GameDuration     int64 `json:"gameDuration"`
		Participants     []struct {
			PUUID                     string `json:"puuid"`
			Win                       bool   `json:"win"`
			GameEndedInEarlySurrender bool   `json:"gameEndedInEarlySurrender"`
		} `json:"participants"`
	} `json:"info"`
}

// AccountByRiotID looks up an account by game name and tag line. It returns nil when none exists.
func (c *Client) AccountByRiotID(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*Account, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine))
	var acc Account
	found, err := c.get(ctx, riotIDKey(gameName, tagLine), region.Continent(), path, &acc)
	if err != nil || !found {
		return nil, err
	}
	return &acc, nil
}

// SummonerByName looks up a summoner by name on the region's platform.
func (c *Client) SummonerByName(ctx context.Context, region rankedtypes.Region, name string) (*Summoner, error) {
	return c.summoner(ctx, region, nameKey(name), "/lol/summoner/v4/summoners/by-name/"+url.PathEscape(name))
}

// SummonerByPUUID looks up a summoner by PUUID on the region's platform.
func (c *Client) SummonerByPUUID(ctx context.Context, region rankedtypes.Region, puuid string) (*Summoner, error) {
	return c.summoner(ctx, region, puuidKey(puuid), "/lol/summoner/v4/summoners/by-puuid/"+url.PathEscape(puuid))
}

func (c *Client) summoner(ctx context.Context, region rankedtypes.Region, key, path string) (*Summoner, error) {
	var s Summoner
	found, err := c.get(ctx, key, region.Platform(), path, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// RankedSoloEntry returns the player's solo queue standing, or nil when unranked.
func (c *Client) RankedSoloEntry(ctx context.Context, region rankedtypes.Region, puuid string) (*Entry, error) {
	var entries []leagueEntry
	found, err := c.get(ctx, puuidKey(puuid), region.Platform(), "/lol/league/v4/entries/by-puuid/"+url.PathEscape(puuid), &entries)
	if err != nil || !found {
		return nil, err
	}
	for _, e := range entries {
		if e.QueueType != rankedSoloQueue {
			continue
		}
		return &Entry{
			Tier:     strings.ToUpper(e.Tier),
			Division: strings.ToUpper(e.Rank),
			LP:       e.LeaguePoints,
		}, nil
	}
	return nil, nil
}

// RankedMatchIDs lists solo queue match IDs played since the given time, newest first.
func (c *Client) RankedMatchIDs(ctx context.Context, region rankedtypes.Region, puuid string, since time.Time, count int) ([]string, error) {
	if count <= 0 || count > maxMatchIDs {
		count = maxMatchIDs
	}
	q := url.Values{}
	q.Set("queue", fmt.Sprint(rankedSoloID))
	q.Set("type", "ranked")
	q.Set("count", fmt.Sprint(count))
	if !since.IsZero() {
		q.Set("startTime", fmt.Sprint(since.Unix()))
	}
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids?" + q.Encode()

	var ids []string
	if _, err := c.get(ctx, puuidKey(puuid), region.Continent(), path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MatchOutcome reports how a match ended for puuid and when it finished.
// The outcome is WIN, LOSS, or REMAKE for early surrenders. Callers must not
// score remakes.
func (c *Client) MatchOutcome(ctx context.Context, region rankedtypes.Region, matchID, puuid string) (rankedtypes.Outcome, time.Time, error) {
	var m match
	found, err := c.get(ctx, puuidKey(puuid), region.Continent(), "/lol/match/v5/matches/"+url.PathEscape(matchID), &m)
	if err != nil {
		return "", time.Time{}, err
	}
	if !found {
		return "", time.Time{}, fmt.Errorf("match %s not found", matchID)
	}

	playedAt := time.UnixMilli(m.Info.GameEndTimestamp).UTC()
	if m.Info.GameEndTimestamp == 0 {
		playedAt = time.UnixMilli(m.Info.GameCreation).Add(time.Duration(m.Info.GameDuration) * time.Second).UTC()
	}

	for _, p := range m.Info.Participants {
		if p.PUUID != puuid {
			continue
		}
		switch {
		case p.GameEndedInEarlySurrender:
			return rankedtypes.OutcomeRemake, playedAt, nil
		case p.Win:
			return rankedtypes.OutcomeWin, playedAt, nil
		default:
			return rankedtypes.OutcomeLoss, playedAt, nil
		}
	}
	return "", time.Time{}, fmt.Errorf("player not found in match %s", matchID)
}

func puuidKey(puuid string) string { return "riot-" + puuid }

func nameKey(name string) string { return "riot-name-" + strings.ToLower(name) }

func riotIDKey(gameName, tagLine string) string {
	return "riot-id-" + strings.ToLower(gameName) + "#" + strings.ToLower(tagLine)
}

// get waits on the limiter for key, performs a GET and decodes the body into
// out. It reports false on 404.
func (c *Client) get(ctx context.Context, key, routing, path string, out any) (bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, key); err != nil {
			return false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.hostFor(routing)+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(tokenHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("riot request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusForbidden:
		return false, ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("riot API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode riot response: %w", err)
	}
	return true, nil
}
