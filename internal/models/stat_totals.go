package models

// StatTotals holds one team's (or player's) counting stats for a single game.
// All fields are raw box-score counts; nothing here is derived.
type StatTotals struct {
	Points              int `json:"points"`
	FieldGoalsMade      int `json:"fgm"`
	FieldGoalsAttempted int `json:"fga"`
	ThreeMade           int `json:"tpm"`
	ThreeAttempted      int `json:"tpa"`
	FreeThrowsMade      int `json:"ftm"`
	FreeThrowsAttempted int `json:"fta"`
	OffensiveRebounds   int `json:"orb"`
	DefensiveRebounds   int `json:"drb"`
	TotalRebounds       int `json:"trb"`
	Assists             int `json:"ast"`
	Steals              int `json:"stl"`
	Blocks              int `json:"blk"`
	Turnovers           int `json:"tov"`
	PersonalFouls       int `json:"pf"`
}

// IsZero reports whether every counting field is zero. A fully zeroed record
// carries no signal and is treated as "not a box-score totals block".
func (s StatTotals) IsZero() bool {
	return s == StatTotals{}
}

// AttemptVolume is FGA+FTA, used to pick the real totals block when the same
// team appears at multiple nesting depths in a payload.
func (s StatTotals) AttemptVolume() int {
	return s.FieldGoalsAttempted + s.FreeThrowsAttempted
}

// DefensiveOrDerived returns the defensive rebound count, deriving it from
// total minus offensive rebounds when the source did not report it.
func (s StatTotals) DefensiveOrDerived() int {
	if s.DefensiveRebounds > 0 {
		return s.DefensiveRebounds
	}
	drb := s.TotalRebounds - s.OffensiveRebounds
	if drb < 0 {
		return 0
	}
	return drb
}
