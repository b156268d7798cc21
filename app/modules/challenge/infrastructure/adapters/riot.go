package challengeadapters

import (
	"context"

	challengeservice "github.com/soloq-club/soloq-tracker/app/modules/challenge/application"
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
	"github.com/soloq-club/soloq-tracker/pkg/riotclient"
)

// RiotLookup is the part of the Riot client used for identity resolution.
type RiotLookup interface {
	AccountByRiotID(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*riotclient.Account, error)
	SummonerByName(ctx context.Context, region rankedtypes.Region, name string) (*riotclient.Summoner, error)
	SummonerByPUUID(ctx context.Context, region rankedtypes.Region, puuid string) (*riotclient.Summoner, error)
}

// RiotIdentityResolver adapts the Riot client to challengeservice.IdentityResolver.
type RiotIdentityResolver struct {
	riot RiotLookup
}

// NewRiotIdentityResolver creates a RiotIdentityResolver.
func NewRiotIdentityResolver(riot RiotLookup) *RiotIdentityResolver {
	return &RiotIdentityResolver{riot: riot}
}

func (r *RiotIdentityResolver) AccountByRiotID(ctx context.Context, region rankedtypes.Region, gameName, tagLine string) (*challengeservice.Account, error) {
	acc, err := r.riot.AccountByRiotID(ctx, region, gameName, tagLine)
	if err != nil || acc == nil {
		return nil, err
	}
	return &challengeservice.Account{PUUID: acc.PUUID, GameName: acc.GameName, TagLine: acc.TagLine}, nil
}

func (r *RiotIdentityResolver) SummonerByName(ctx context.Context, region rankedtypes.Region, name string) (*challengeservice.Summoner, error) {
	s, err := r.riot.SummonerByName(ctx, region, name)
	return toSummoner(s), err
}

func (r *RiotIdentityResolver) SummonerByPUUID(ctx context.Context, region rankedtypes.Region, puuid string) (*challengeservice.Summoner, error) {
	s, err := r.riot.SummonerByPUUID(ctx, region, puuid)
	return toSummoner(s), err
}

func toSummoner(s *riotclient.Summoner) *challengeservice.Summoner {
	if s == nil {
		return nil
	}
	return &challengeservice.Summoner{
		ID:            s.ID,
		PUUID:         s.PUUID,
		Name:          s.Name,
		ProfileIconID: s.ProfileIconID,
	}
}

var _ challengeservice.IdentityResolver = (*RiotIdentityResolver)(nil)
