package challengeservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	challengedb "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

type (
	addPlayersResult = results.OperationResult[*AddPlayersResult, error]
	playerListResult = results.OperationResult[[]PlayerView, error]
)

var (
	errRiotIDNotFound   = errors.New("Riot ID not found")
	errSummonerNotFound = errors.New("Summoner not found")
	errNoPUUID          = errors.New("Unable to resolve PUUID")
)

type identityKind int

const (
	kindSummonerName identityKind = iota
	kindRiotID
	kindPUUID
)

// lengthBounds are the accepted trimmed lengths per identity kind.
var lengthBounds = map[identityKind][2]int{
	kindSummonerName: {2, 30},
	kindRiotID:       {3, 40},
	kindPUUID:        {20, 80},
}

type playerRequest struct {
	input  PlayerInput
	region rankedtypes.Region
	kind   identityKind
	value  string
}

// AddPlayers resolves each input to a Riot account and adds it to the roster.
// Per-input problems are reported in the result rather than failing the call.
func (s *ChallengeService) AddPlayers(ctx context.Context, userID string, challengeID uuid.UUID, inputs []PlayerInput) (*AddPlayersResult, error) {
	result, err := withTelemetry(s, ctx, "AddPlayers", challengeID.String(), func(ctx context.Context) (addPlayersResult, error) {
		return s.addPlayersLogic(ctx, userID, challengeID, inputs)
	})
	return unwrap(result, err)
}

func (s *ChallengeService) addPlayersLogic(ctx context.Context, userID string, challengeID uuid.UUID, inputs []PlayerInput) (addPlayersResult, error) {
	if _, err := s.requireRole(ctx, nil, challengeID, userID, rankedtypes.Role.CanManage); err != nil {
		return failureOrError[*AddPlayersResult](err)
	}

	requests, err := parsePlayerInputs(inputs)
	if err != nil {
		return results.FailureResult[*AddPlayersResult, error](err), nil
	}

	out := &AddPlayersResult{
		Inserted: []InsertedPlayer{},
		Skipped:  []SkippedPlayer{},
		Failed:   []FailedPlayer{},
	}
	for _, req := range requests {
		player, err := s.resolvePlayer(ctx, challengeID, req)
		if err != nil {
			out.Failed = append(out.Failed, FailedPlayer{PlayerInput: req.input, Reason: err.Error()})
			continue
		}
		s.storePlayer(ctx, out, req, player)
	}

	s.logger.InfoContext(ctx, "Players added",
		slog.String("challenge_id", challengeID.String()),
		slog.Int("inserted", len(out.Inserted)),
		slog.Int("skipped", len(out.Skipped)),
		slog.Int("failed", len(out.Failed)),
	)
	return results.SuccessResult[*AddPlayersResult, error](out), nil
}

// storePlayer inserts player and files the outcome. A previously removed
// account is reactivated instead of being reported as a duplicate.
func (s *ChallengeService) storePlayer(ctx context.Context, out *AddPlayersResult, req playerRequest, player *challengedb.Player) {
	err := s.repo.InsertPlayer(ctx, nil, player)
	switch {
	case err == nil:
		out.Inserted = append(out.Inserted, InsertedPlayer{
			PlayerInput:   req.input,
			ID:            player.ID,
			ResolvedPUUID: player.PUUID,
			Name:          player.Name,
		})
	case errors.Is(err, challengedb.ErrDuplicatePlayer):
		existing, rerr := s.repo.ReactivatePlayer(ctx, nil, player.ChallengeID, player.PUUID)
		if rerr == nil {
			out.Inserted = append(out.Inserted, InsertedPlayer{
				PlayerInput:   req.input,
				ID:            existing.ID,
				ResolvedPUUID: existing.PUUID,
				Name:          existing.Name,
			})
			return
		}
		if !errors.Is(rerr, challengedb.ErrNotFound) {
			out.Failed = append(out.Failed, FailedPlayer{PlayerInput: req.input, Reason: rerr.Error()})
			return
		}
		out.Skipped = append(out.Skipped, SkippedPlayer{
			PlayerInput:   req.input,
			ResolvedPUUID: player.PUUID,
			Reason:        reasonDuplicate,
		})
	default:
		out.Failed = append(out.Failed, FailedPlayer{PlayerInput: req.input, Reason: err.Error()})
	}
}

func parsePlayerInputs(inputs []PlayerInput) ([]playerRequest, error) {
	if len(inputs) == 0 {
		return nil, ErrNoPlayers
	}
	if len(inputs) > maxPlayersPerAdd {
		return nil, ErrTooManyPlayers
	}

	requests := make([]playerRequest, 0, len(inputs))
	for i, in := range inputs {
		req, err := parsePlayerInput(in)
		if err != nil {
			return nil, invalid("players["+strconv.Itoa(i)+"]", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func parsePlayerInput(in PlayerInput) (playerRequest, error) {
	region, ok := rankedtypes.ParseRegion(in.Region)
	if !ok {
		return playerRequest{}, ErrInvalidRegion
	}

	candidates := []struct {
		kind  identityKind
		value string
	}{
		{kindSummonerName, in.SummonerName},
		{kindRiotID, in.RiotID},
		{kindPUUID, in.PUUID},
	}
	for _, c := range candidates {
		value := strings.TrimSpace(c.value)
		bounds := lengthBounds[c.kind]
		if n := utf8.RuneCountInString(value); n >= bounds[0] && n <= bounds[1] {
			return playerRequest{input: in, region: region, kind: c.kind, value: value}, nil
		}
	}
	return playerRequest{}, ErrInvalidPlayerInput
}

// resolvePlayer turns a request into an unsaved roster entry.
func (s *ChallengeService) resolvePlayer(ctx context.Context, challengeID uuid.UUID, req playerRequest) (*challengedb.Player, error) {
	player := &challengedb.Player{
		ChallengeID: challengeID,
		Region:      string(req.region),
		Team:        req.input.Team,
		Active:      true,
	}

	switch req.kind {
	case kindPUUID:
		player.PUUID = req.value
		summoner, err := s.resolver.SummonerByPUUID(ctx, req.region, req.value)
		if err != nil {
			return nil, err
		}
		if summoner != nil && summoner.Name != "" {
			player.Name = summoner.Name
			applySummoner(player, summoner)
		} else {
			player.Name = truncatePUUID(req.value)
		}

	case kindRiotID:
		gameName, tagLine, _ := strings.Cut(req.value, "#")
		gameName, tagLine = strings.TrimSpace(gameName), strings.TrimSpace(tagLine)
		if gameName == "" || tagLine == "" {
			return nil, ErrInvalidRiotID
		}
		account, err := s.resolver.AccountByRiotID(ctx, req.region, gameName, tagLine)
		if err != nil {
			return nil, err
		}
		if account == nil || account.PUUID == "" {
			return nil, errRiotIDNotFound
		}
		player.PUUID = account.PUUID
		player.Name = account.GameName + "#" + account.TagLine

		summoner, err := s.resolver.SummonerByPUUID(ctx, req.region, account.PUUID)
		if err != nil {
			s.logger.WarnContext(ctx, "Summoner lookup failed, storing player without icon",
				slog.String("challenge_id", challengeID.String()),
				slog.String("puuid", account.PUUID),
				slog.Any("error", err),
			)
		} else if summoner != nil {
			applySummoner(player, summoner)
		}

	case kindSummonerName:
		summoner, err := s.resolver.SummonerByName(ctx, req.region, req.value)
		if err != nil {
			return nil, err
		}
		if summoner == nil || summoner.PUUID == "" {
			return nil, errSummonerNotFound
		}
		player.PUUID = summoner.PUUID
		player.Name = summoner.Name
		if player.Name == "" {
			player.Name = req.value
		}
		applySummoner(player, summoner)
	}

	if player.PUUID == "" {
		return nil, errNoPUUID
	}
	return player, nil
}

func applySummoner(p *challengedb.Player, summoner *Summoner) {
	if summoner.ID != "" {
		id := summoner.ID
		p.SummonerID = &id
	}
	icon := summoner.ProfileIconID
	p.ProfileIconID = &icon
}

func truncatePUUID(puuid string) string {
	runes := []rune(puuid)
	if len(runes) <= truncatedPUUIDLength {
		return puuid
	}
	return string(runes[:truncatedPUUIDLength]) + "…"
}

// RemovePlayer takes a player off the active roster. Its history is kept.
func (s *ChallengeService) RemovePlayer(ctx context.Context, userID string, challengeID, playerID uuid.UUID) error {
	result, err := withTelemetry(s, ctx, "RemovePlayer", playerID.String(), func(ctx context.Context) (emptyResult, error) {
		return s.removePlayerLogic(ctx, userID, challengeID, playerID)
	})
	_, err = unwrap(result, err)
	return err
}

func (s *ChallengeService) removePlayerLogic(ctx context.Context, userID string, challengeID, playerID uuid.UUID) (emptyResult, error) {
	if _, err := s.requireRole(ctx, nil, challengeID, userID, rankedtypes.Role.CanManage); err != nil {
		return failureOrError[struct{}](err)
	}

	if _, err := s.repo.GetPlayer(ctx, nil, challengeID, playerID); err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return results.FailureResult[struct{}, error](ErrPlayerNotFound), nil
		}
		return emptyResult{}, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.repo.SetPlayerActive(ctx, nil, challengeID, playerID, false); err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			return results.FailureResult[struct{}, error](ErrPlayerNotFound), nil
		}
		return emptyResult{}, err
	}
	return results.SuccessResult[struct{}, error](struct{}{}), nil
}

// ListPlayers returns the roster in insertion order.
func (s *ChallengeService) ListPlayers(ctx context.Context, challengeID uuid.UUID, activeOnly bool) ([]PlayerView, error) {
	result, err := withTelemetry(s, ctx, "ListPlayers", challengeID.String(), func(ctx context.Context) (playerListResult, error) {
		if _, err := s.loadChallenge(ctx, nil, challengeID); err != nil {
			return failureOrError[[]PlayerView](err)
		}
		players, err := s.repo.ListPlayers(ctx, nil, challengeID, activeOnly)
		if err != nil {
			return playerListResult{}, err
		}
		views := make([]PlayerView, 0, len(players))
		for i := range players {
			views = append(views, toPlayerView(&players[i]))
		}
		return results.SuccessResult[[]PlayerView, error](views), nil
	})
	return unwrap(result, err)
}
