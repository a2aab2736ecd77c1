// Package ratings holds the pure derived-metric calculators: possession
// estimates, per-100-possession efficiency ratings, Four Factors and ranking.
// Everything here is stateless and operates on raw accumulated totals.
package ratings

import (
	"wbb_analytics/ingestion/internal/models"
)

// Possessions estimates offensive possessions from shot attempts, rebounds,
// turnovers and free-throw trips. Floored at 1 so degenerate low-volume
// inputs never divide by zero or go negative.
func Possessions(s models.StatTotals) float64 {
	p := float64(s.FieldGoalsAttempted-s.OffensiveRebounds+s.Turnovers) +
		0.475*float64(s.FreeThrowsAttempted)
	if p < 1 {
		return 1
	}
	return p
}

// OffensiveRating is points scored per 100 possessions.
func OffensiveRating(own models.StatTotals) float64 {
	return float64(own.Points) / Possessions(own) * 100
}

// DefensiveRating is points allowed per 100 possessions. The team's own
// offensive possession estimate stands in for the opponent count; without
// play-by-play data the two are equal to within a possession or two.
func DefensiveRating(own, opp models.StatTotals) float64 {
	return float64(opp.Points) / Possessions(own) * 100
}

// EfficiencyMargin is offensive minus defensive rating.
func EfficiencyMargin(own, opp models.StatTotals) float64 {
	return OffensiveRating(own) - DefensiveRating(own, opp)
}

// Tempo is possessions per game.
func Tempo(own models.StatTotals, games int) float64 {
	if games < 1 {
		games = 1
	}
	return Possessions(own) / float64(games)
}

// Row derives the full ratings line for one team aggregate.
func Row(a *models.TeamSeasonAggregate) models.RatingsRow {
	own := a.OwnTotals()
	opp := a.OpponentTotals()
	return models.RatingsRow{
		TeamID: a.TeamID,
		Team:   a.TeamName,
		Games:  a.Games,
		AdjO:   OffensiveRating(own),
		AdjD:   DefensiveRating(own, opp),
		AdjEM:  EfficiencyMargin(own, opp),
		AdjT:   Tempo(own, a.Games),
	}
}

// FourFactors are the shooting/turnover/rebounding/free-throw-rate ratios
// that explain scoring efficiency. A nil field means the denominator was
// zero; consumers render it as "—", never NaN.
type FourFactors struct {
	EFGPct *float64 `json:"efg"`
	TOVPct *float64 `json:"tov"`
	ORBPct *float64 `json:"orb"`
	FTRate *float64 `json:"ftRate"`
}

// ShootingSplits are the finer-grained shooting rates shown alongside the
// Four Factors.
type ShootingSplits struct {
	TwoPct      *float64 `json:"two"`
	ThreePct    *float64 `json:"three"`
	FTPct       *float64 `json:"ft"`
	ThreePARate *float64 `json:"threePaRate"`
	AssistRate  *float64 `json:"ast"`
}

// pct returns num/den*100, or nil when the denominator is zero.
func pct(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den * 100
	return &v
}

// OffensiveFourFactors computes the team's own Four Factors. The opponent
// totals supply the defensive rebounds for the offensive-rebound share.
func OffensiveFourFactors(own, opp models.StatTotals) FourFactors {
	return FourFactors{
		EFGPct: pct(float64(own.FieldGoalsMade)+0.5*float64(own.ThreeMade), float64(own.FieldGoalsAttempted)),
		TOVPct: pct(float64(own.Turnovers), Possessions(own)),
		ORBPct: pct(float64(own.OffensiveRebounds), float64(own.OffensiveRebounds+opp.DefensiveOrDerived())),
		FTRate: pct(float64(own.FreeThrowsAttempted), float64(own.FieldGoalsAttempted)),
	}
}

// DefensiveFourFactors computes what opponents did against the team: their
// shooting, their turnovers forced per possession, their offensive-rebound
// share against the team's defensive boards.
func DefensiveFourFactors(own, opp models.StatTotals) FourFactors {
	return OffensiveFourFactors(opp, own)
}

// Splits computes the extended shooting rates for one side's totals.
func Splits(own models.StatTotals) ShootingSplits {
	twoPA := own.FieldGoalsAttempted - own.ThreeAttempted
	twoPM := own.FieldGoalsMade - own.ThreeMade
	return ShootingSplits{
		TwoPct:      pct(float64(twoPM), float64(twoPA)),
		ThreePct:    pct(float64(own.ThreeMade), float64(own.ThreeAttempted)),
		FTPct:       pct(float64(own.FreeThrowsMade), float64(own.FreeThrowsAttempted)),
		ThreePARate: pct(float64(own.ThreeAttempted), float64(own.FieldGoalsAttempted)),
		AssistRate:  pct(float64(own.Assists), float64(own.FieldGoalsMade)),
	}
}

// Rank returns the 1-based position of value among values sorted in the
// given direction, plus the population size. Ties share the rank of the
// first occurrence, so equal values never shuffle under float noise.
// Nil entries (no data) are excluded from the population; a nil value has
// no rank.
func Rank(values []*float64, value *float64, higherIsBetter bool) (rank, of int, ok bool) {
	if value == nil {
		return 0, 0, false
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		of++
		if higherIsBetter && *v > *value {
			rank++
		}
		if !higherIsBetter && *v < *value {
			rank++
		}
	}
	if of == 0 {
		return 0, 0, false
	}
	return rank + 1, of, true
}
