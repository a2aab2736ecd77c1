package models

// TeamSeasonAggregate is the mutable season-to-date accumulator for one team.
// Every counting field is purely additive: processing a game only ever
// increments, which is what makes replay from an empty state deterministic.
// JSON field names match the persisted team_stats document.
type TeamSeasonAggregate struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`

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

	OppPoints              int `json:"opp_points"`
	OppFieldGoalsMade      int `json:"opp_fgm"`
	OppFieldGoalsAttempted int `json:"opp_fga"`
	OppThreeMade           int `json:"opp_tpm"`
	OppThreeAttempted      int `json:"opp_tpa"`
	OppFreeThrowsMade      int `json:"opp_ftm"`
	OppFreeThrowsAttempted int `json:"opp_fta"`
	OppOffensiveRebounds   int `json:"opp_orb"`
	OppDefensiveRebounds   int `json:"opp_drb"`
	OppTotalRebounds       int `json:"opp_trb"`
	OppAssists             int `json:"opp_ast"`
	OppSteals              int `json:"opp_stl"`
	OppBlocks              int `json:"opp_blk"`
	OppTurnovers           int `json:"opp_tov"`
	OppPersonalFouls       int `json:"opp_pf"`
}

// OwnTotals returns the team's cumulative counting stats as a StatTotals,
// for feeding the ratings calculators.
func (a *TeamSeasonAggregate) OwnTotals() StatTotals {
	return StatTotals{
		Points:              a.Points,
		FieldGoalsMade:      a.FieldGoalsMade,
		FieldGoalsAttempted: a.FieldGoalsAttempted,
		ThreeMade:           a.ThreeMade,
		ThreeAttempted:      a.ThreeAttempted,
		FreeThrowsMade:      a.FreeThrowsMade,
		FreeThrowsAttempted: a.FreeThrowsAttempted,
		OffensiveRebounds:   a.OffensiveRebounds,
		DefensiveRebounds:   a.DefensiveRebounds,
		TotalRebounds:       a.TotalRebounds,
		Assists:             a.Assists,
		Steals:              a.Steals,
		Blocks:              a.Blocks,
		Turnovers:           a.Turnovers,
		PersonalFouls:       a.PersonalFouls,
	}
}

// OpponentTotals returns the cumulative opponent counting stats.
func (a *TeamSeasonAggregate) OpponentTotals() StatTotals {
	return StatTotals{
		Points:              a.OppPoints,
		FieldGoalsMade:      a.OppFieldGoalsMade,
		FieldGoalsAttempted: a.OppFieldGoalsAttempted,
		ThreeMade:           a.OppThreeMade,
		ThreeAttempted:      a.OppThreeAttempted,
		FreeThrowsMade:      a.OppFreeThrowsMade,
		FreeThrowsAttempted: a.OppFreeThrowsAttempted,
		OffensiveRebounds:   a.OppOffensiveRebounds,
		DefensiveRebounds:   a.OppDefensiveRebounds,
		TotalRebounds:       a.OppTotalRebounds,
		Assists:             a.OppAssists,
		Steals:              a.OppSteals,
		Blocks:              a.OppBlocks,
		Turnovers:           a.OppTurnovers,
		PersonalFouls:       a.OppPersonalFouls,
	}
}

// PlayerSeasonAggregate accumulates one player's season-to-date totals.
type PlayerSeasonAggregate struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	TeamID   string  `json:"teamId"`
	TeamName string  `json:"teamName"`
	Games    int     `json:"games"`
	Minutes  float64 `json:"minutes"`

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
