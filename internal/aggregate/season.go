// Package aggregate holds the season accumulator: per-team and per-player
// running totals folded one game at a time. Folding is purely additive and
// commutative per team, so replaying any ordering of the same game set from
// an empty state converges to the same aggregates.
package aggregate

import (
	"sort"

	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/models"
	"wbb_analytics/ingestion/internal/ratings"
)

// Season accumulates season-to-date totals. Not safe for concurrent use;
// the pipeline folds sequentially on the coordinating goroutine.
type Season struct {
	teams   map[string]*models.TeamSeasonAggregate
	players map[string]*models.PlayerSeasonAggregate
	gameLog []models.GameLogEntry
}

// NewSeason returns an empty accumulator.
func NewSeason() *Season {
	return &Season{
		teams:   make(map[string]*models.TeamSeasonAggregate),
		players: make(map[string]*models.PlayerSeasonAggregate),
	}
}

// Resume rebuilds an accumulator from previously persisted state so an
// incremental run continues where the last one stopped.
func Resume(teams []models.TeamSeasonAggregate, players []models.PlayerSeasonAggregate, gameLog []models.GameLogEntry) *Season {
	s := NewSeason()
	for i := range teams {
		t := teams[i]
		s.teams[t.TeamID] = &t
	}
	for i := range players {
		p := players[i]
		s.players[p.PlayerID] = &p
	}
	s.gameLog = append(s.gameLog, gameLog...)
	return s
}

// Fold adds one game into both teams' aggregates and appends it to the game
// log. Fold itself is additive and does not check for duplicates; the
// pipeline guarantees each gameId is folded at most once via the processed
// index. Both sides are updated before Fold returns, so callers observe it
// as atomic.
func (s *Season) Fold(game *models.GameBoxScore) {
	if game.Home.Stats.Points == game.Away.Stats.Points {
		// Basketball games cannot end tied; this is an upstream data error.
		// Both sides take a loss and the game still counts toward totals.
		log.Warn().
			Str("game_id", game.GameID).
			Int("points", game.Home.Stats.Points).
			Msg("Tied final score in box score data")
	}

	s.foldSide(game.Home, game.Away)
	s.foldSide(game.Away, game.Home)
	s.foldPlayers(game)
	s.gameLog = append(s.gameLog, game.LogEntry())
}

// foldSide adds one team's game line plus the opponent mirror set into that
// team's aggregate.
func (s *Season) foldSide(team, opp models.TeamGameLine) {
	agg, ok := s.teams[team.TeamID]
	if !ok {
		agg = &models.TeamSeasonAggregate{TeamID: team.TeamID}
		s.teams[team.TeamID] = agg
	}

	// Names can improve across payloads (short name vs placeholder)
	if team.TeamName != "" {
		agg.TeamName = team.TeamName
	}

	agg.Games++
	if team.Stats.Points > opp.Stats.Points {
		agg.Wins++
	} else {
		agg.Losses++
	}

	own := team.Stats
	agg.Points += own.Points
	agg.FieldGoalsMade += own.FieldGoalsMade
	agg.FieldGoalsAttempted += own.FieldGoalsAttempted
	agg.ThreeMade += own.ThreeMade
	agg.ThreeAttempted += own.ThreeAttempted
	agg.FreeThrowsMade += own.FreeThrowsMade
	agg.FreeThrowsAttempted += own.FreeThrowsAttempted
	agg.OffensiveRebounds += own.OffensiveRebounds
	agg.DefensiveRebounds += own.DefensiveOrDerived()
	agg.TotalRebounds += own.TotalRebounds
	agg.Assists += own.Assists
	agg.Steals += own.Steals
	agg.Blocks += own.Blocks
	agg.Turnovers += own.Turnovers
	agg.PersonalFouls += own.PersonalFouls

	against := opp.Stats
	agg.OppPoints += against.Points
	agg.OppFieldGoalsMade += against.FieldGoalsMade
	agg.OppFieldGoalsAttempted += against.FieldGoalsAttempted
	agg.OppThreeMade += against.ThreeMade
	agg.OppThreeAttempted += against.ThreeAttempted
	agg.OppFreeThrowsMade += against.FreeThrowsMade
	agg.OppFreeThrowsAttempted += against.FreeThrowsAttempted
	agg.OppOffensiveRebounds += against.OffensiveRebounds
	agg.OppDefensiveRebounds += against.DefensiveOrDerived()
	agg.OppTotalRebounds += against.TotalRebounds
	agg.OppAssists += against.Assists
	agg.OppSteals += against.Steals
	agg.OppBlocks += against.Blocks
	agg.OppTurnovers += against.Turnovers
	agg.OppPersonalFouls += against.PersonalFouls
}

// foldPlayers adds the game's player lines into the player aggregates.
func (s *Season) foldPlayers(game *models.GameBoxScore) {
	teamNames := map[string]string{
		game.Home.TeamID: game.Home.TeamName,
		game.Away.TeamID: game.Away.TeamName,
	}

	for _, line := range game.Players {
		agg, ok := s.players[line.PlayerID]
		if !ok {
			agg = &models.PlayerSeasonAggregate{
				PlayerID: line.PlayerID,
				Name:     line.Name,
				TeamID:   line.TeamID,
			}
			s.players[line.PlayerID] = agg
		}
		if name, ok := teamNames[line.TeamID]; ok {
			agg.TeamName = name
		}

		agg.Games++
		agg.Minutes += line.Minutes
		agg.Points += line.Stats.Points
		agg.FieldGoalsMade += line.Stats.FieldGoalsMade
		agg.FieldGoalsAttempted += line.Stats.FieldGoalsAttempted
		agg.ThreeMade += line.Stats.ThreeMade
		agg.ThreeAttempted += line.Stats.ThreeAttempted
		agg.FreeThrowsMade += line.Stats.FreeThrowsMade
		agg.FreeThrowsAttempted += line.Stats.FreeThrowsAttempted
		agg.OffensiveRebounds += line.Stats.OffensiveRebounds
		agg.DefensiveRebounds += line.Stats.DefensiveOrDerived()
		agg.TotalRebounds += line.Stats.TotalRebounds
		agg.Assists += line.Stats.Assists
		agg.Steals += line.Stats.Steals
		agg.Blocks += line.Stats.Blocks
		agg.Turnovers += line.Stats.Turnovers
		agg.PersonalFouls += line.Stats.PersonalFouls
	}
}

// TeamCount returns how many teams the aggregate covers.
func (s *Season) TeamCount() int {
	return len(s.teams)
}

// Team returns one team's aggregate, or nil if unseen.
func (s *Season) Team(teamID string) *models.TeamSeasonAggregate {
	return s.teams[teamID]
}

// Teams returns all aggregates sorted by team ID for stable output.
func (s *Season) Teams() []models.TeamSeasonAggregate {
	out := make([]models.TeamSeasonAggregate, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}

// Players returns all player aggregates sorted by player ID.
func (s *Season) Players() []models.PlayerSeasonAggregate {
	out := make([]models.PlayerSeasonAggregate, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// GameLog returns the season game log ordered by date then game ID. Fold
// order within a day follows worker completion, so the log is sorted on the
// way out to keep reruns byte-identical.
func (s *Season) GameLog() []models.GameLogEntry {
	out := make([]models.GameLogEntry, len(s.gameLog))
	copy(out, s.gameLog)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

// Ratings recomputes the full derived ratings table from the current
// aggregates, sorted by efficiency margin, best first. Always a pure
// function of the aggregate state, never updated incrementally.
func (s *Season) Ratings() []models.RatingsRow {
	rows := make([]models.RatingsRow, 0, len(s.teams))
	for _, t := range s.teams {
		rows = append(rows, ratings.Row(t))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AdjEM != rows[j].AdjEM {
			return rows[i].AdjEM > rows[j].AdjEM
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	return rows
}
