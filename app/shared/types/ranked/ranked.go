package rankedtypes

import "strings"

// Tier is a named band of the ranked ladder.
type Tier string

const (
	TierUnknown     Tier = ""
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierEmerald     Tier = "EMERALD"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// Tiers lists every known tier from lowest to highest.
var Tiers = []Tier{
	TierIron, TierBronze, TierSilver, TierGold, TierPlatinum, TierEmerald, TierDiamond,
	TierMaster, TierGrandmaster, TierChallenger,
}

// ParseTier matches s case-insensitively against the known tiers.
// Anything else yields TierUnknown.
func ParseTier(s string) Tier {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if t.Index() < 0 {
		return TierUnknown
	}
	return t
}

// Index returns the position of t in the ladder (IRON=0 … CHALLENGER=9), or -1 when unknown.
func (t Tier) Index() int {
	for i, known := range Tiers {
		if t == known {
			return i
		}
	}
	return -1
}

// HasDivisions reports whether t is split into divisions IV..I.
func (t Tier) HasDivisions() bool {
	i := t.Index()
	return i >= 0 && i <= TierDiamond.Index()
}

func (t Tier) String() string { return string(t) }

// Division is a sub-rank inside a divisioned tier.
type Division string

const (
	DivisionUnknown Division = ""
	DivisionIV      Division = "IV"
	DivisionIII     Division = "III"
	DivisionII      Division = "II"
	DivisionI       Division = "I"
)

// ParseDivision matches s case-insensitively against IV..I.
func ParseDivision(s string) Division {
	switch d := Division(strings.ToUpper(strings.TrimSpace(s))); d {
	case DivisionIV, DivisionIII, DivisionII, DivisionI:
		return d
	default:
		return DivisionUnknown
	}
}

// Offset returns IV=0, III=1, II=2, I=3. Unknown divisions count as IV.
func (d Division) Offset() int {
	switch d {
	case DivisionIII:
		return 1
	case DivisionII:
		return 2
	case DivisionI:
		return 3
	default:
		return 0
	}
}

func (d Division) String() string { return string(d) }

// Rule selects the metric a challenge is ranked by.
type Rule string

const (
	RuleFreshRank  Rule = "fresh_rank"
	RuleWinsLosses Rule = "wins_losses"
	RuleLPGained   Rule = "lp_gained"
)

// ParseRule maps the stored rule tag to a Rule. Any unrecognised value is the LP-delta default.
func ParseRule(s string) Rule {
	switch r := Rule(s); r {
	case RuleFreshRank, RuleWinsLosses:
		return r
	default:
		return RuleLPGained
	}
}

func (r Rule) String() string { return string(r) }

// Outcome is the result of a game. Only WIN and LOSS are scored.
type Outcome string

const (
	OutcomeWin    Outcome = "WIN"
	OutcomeLoss   Outcome = "LOSS"
	OutcomeRemake Outcome = "REMAKE"
)

// Scored reports whether the outcome counts as a game played.
func (o Outcome) Scored() bool { return o == OutcomeWin || o == OutcomeLoss }

// Region is a Riot server shard as entered by users.
type Region string

const (
	RegionEUW  Region = "EUW"
	RegionEUNE Region = "EUNE"
	RegionNA   Region = "NA"
	RegionKR   Region = "KR"
	RegionJP   Region = "JP"
	RegionBR   Region = "BR"
	RegionLAN  Region = "LAN"
	RegionLAS  Region = "LAS"
	RegionOCE  Region = "OCE"
	RegionTR   Region = "TR"
	RegionRU   Region = "RU"
)

var platforms = map[Region]string{
	RegionEUW:  "euw1",
	RegionEUNE: "eune1",
	RegionNA:   "na1",
	RegionKR:   "kr",
	RegionJP:   "jp1",
	RegionBR:   "br1",
	RegionLAN:  "la1",
	RegionLAS:  "la2",
	RegionOCE:  "oc1",
	RegionTR:   "tr1",
	RegionRU:   "ru",
}

// ParseRegion returns the region for s and whether it is known.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := platforms[r]
	return r, ok
}

// Platform returns the platform routing host prefix (e.g. "euw1").
func (r Region) Platform() string {
	return platforms[r]
}

// Continent returns the regional routing host prefix used by account and match endpoints.
// KR and JP are served through europe for account lookups.
func (r Region) Continent() string {
	switch r {
	case RegionNA, RegionBR, RegionLAN, RegionLAS, RegionOCE:
		return "americas"
	default:
		return "europe"
	}
}

// Visibility of a challenge listing.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility defaults to public.
func ParseVisibility(s string) Visibility {
	if Visibility(strings.ToLower(s)) == VisibilityPrivate {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// Role of a user inside a challenge.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanManage reports whether the role may edit the challenge and its roster.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}
