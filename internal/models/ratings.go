package models

// RatingsRow is the derived efficiency line for one team, recomputed in full
// from its season aggregate on every run. "Adjusted" here means the
// per-100-possession rate framing, not an opponent-strength adjustment.
type RatingsRow struct {
	TeamID string  `json:"teamId"`
	Team   string  `json:"team"`
	Games  int     `json:"games"`
	AdjO   float64 `json:"adjO"`
	AdjD   float64 `json:"adjD"`
	AdjEM  float64 `json:"adjEM"`
	AdjT   float64 `json:"adjT"`
}

// RatingsDoc is the persisted ratings document.
type RatingsDoc struct {
	GeneratedAtUTC string       `json:"generated_at_utc"`
	SeasonStart    string       `json:"season_start"`
	Rows           []RatingsRow `json:"rows"`
}

// TeamStatsDoc is the persisted per-team season aggregate document.
type TeamStatsDoc struct {
	GeneratedAtUTC string                `json:"generated_at_utc"`
	Teams          []TeamSeasonAggregate `json:"teams"`
}

// GamesDoc is the persisted season game log.
type GamesDoc struct {
	GeneratedAtUTC string         `json:"generated_at_utc"`
	Games          []GameLogEntry `json:"games"`
}

// GameIndexDoc is the persisted set of successfully processed game IDs.
// Only games whose box score was fetched, parsed and folded make it in here;
// a scoreboard sighting alone is never enough.
type GameIndexDoc struct {
	GeneratedAtUTC string   `json:"generated_at_utc"`
	TotalGames     int      `json:"total_games"`
	GameIDs        []string `json:"game_ids"`
}

// PlayerStatsDoc is the persisted per-player season aggregate document.
type PlayerStatsDoc struct {
	GeneratedAtUTC string                  `json:"generated_at_utc"`
	Players        []PlayerSeasonAggregate `json:"players"`
}

// MissingGame describes a scoreboard game whose box score the upstream never
// served, found by the audit mode.
type MissingGame struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	URL    string `json:"ncaaUrl"`
	Status string `json:"status"`
}

// MissingGamesDoc is the persisted audit result.
type MissingGamesDoc struct {
	GeneratedAtUTC string        `json:"generated_at_utc"`
	TotalChecked   int           `json:"total_checked"`
	Missing        []MissingGame `json:"missing"`
}
