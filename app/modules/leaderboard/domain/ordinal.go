package leaderboarddomain

import (
	rankedtypes "github.com/soloq-club/soloq-tracker/app/shared/types/ranked"
)

const (
	// tierSteps is the ordinal width of one tier: four divisions plus the LP fraction.
	tierSteps = 5

	divisionLPCap   = 1000
	divisionLPScale = 100
	apexLPCap       = 1000
	challengerLPCap = 3000
)

// Ordinal encodes a (tier, division, LP) triple as a single comparable number.
// Tier dominates division, division dominates LP. Unknown tiers encode as 0.
//
// Divisioned tiers: tier*5 + division offset + clamp(LP, 0, 1000)/100.
// Master and Grandmaster: tier*5 + 4 + clamp(LP, 0, 1000)/1000.
// Challenger: tier*5 + 4 + clamp(LP, 0, 3000)/3000.
//
// LP is segmented, not a flat scale: a promotion resets the fraction, so a
// higher rank can carry a lower fractional LP than the band below it.
func Ordinal(tier, division string, lp int) float64 {
	t := rankedtypes.ParseTier(tier)
	ti := t.Index()
	if ti < 0 {
		return 0
	}

	if t.HasDivisions() {
		d := rankedtypes.ParseDivision(division)
		return float64(ti*tierSteps+d.Offset()) + float64(clamp(lp, divisionLPCap))/divisionLPScale
	}

	base := float64(ti*tierSteps + 4)
	if t == rankedtypes.TierChallenger {
		return base + float64(clamp(lp, challengerLPCap))/challengerLPCap
	}
	return base + float64(clamp(lp, apexLPCap))/apexLPCap
}

func clamp(lp, ceiling int) int {
	if lp < 0 {
		return 0
	}
	if lp > ceiling {
		return ceiling
	}
	return lp
}
