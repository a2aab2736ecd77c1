package models

// TeamGameLine is one team's side of a completed game.
type TeamGameLine struct {
	TeamID   string     `json:"teamId"`
	TeamName string     `json:"teamName"`
	Stats    StatTotals `json:"stats"`
}

// GameBoxScore is one completed game's team-level totals, produced by the
// extractor and consumed exactly once by the aggregation engine. Immutable
// after construction.
type GameBoxScore struct {
	GameID string       `json:"gameId"`
	Date   string       `json:"date"` // YYYY-MM-DD
	Home   TeamGameLine `json:"home"`
	Away   TeamGameLine `json:"away"`

	// Player lines are best-effort; an empty slice means the payload carried
	// no recognizable player tables.
	Players []PlayerGameLine `json:"players,omitempty"`
}

// GameLogEntry is the per-game row kept in the season game log for display.
type GameLogEntry struct {
	GameID    string `json:"gameId"`
	Date      string `json:"date"`
	HomeTeam  string `json:"homeTeam"`
	HomeID    string `json:"homeId"`
	HomeScore int    `json:"homeScore"`
	AwayTeam  string `json:"awayTeam"`
	AwayID    string `json:"awayId"`
	AwayScore int    `json:"awayScore"`
}

// LogEntry reduces a box score to its game-log row.
func (g *GameBoxScore) LogEntry() GameLogEntry {
	return GameLogEntry{
		GameID:    g.GameID,
		Date:      g.Date,
		HomeTeam:  g.Home.TeamName,
		HomeID:    g.Home.TeamID,
		HomeScore: g.Home.Stats.Points,
		AwayTeam:  g.Away.TeamName,
		AwayID:    g.Away.TeamID,
		AwayScore: g.Away.Stats.Points,
	}
}

// PlayerGameLine is one player's totals for a single game.
type PlayerGameLine struct {
	PlayerID string     `json:"playerId"`
	Name     string     `json:"name"`
	TeamID   string     `json:"teamId"`
	Minutes  float64    `json:"minutes"`
	Stats    StatTotals `json:"stats"`
}
