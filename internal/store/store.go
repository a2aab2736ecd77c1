// Package store persists the pipeline's season state as JSON documents:
// team aggregates, player aggregates, the game log, the derived ratings and
// the processed-game index. Loads tolerate missing or corrupt files (fresh
// rebuild); saves are write-then-rename atomic so a crash mid-run leaves
// either the old complete state or the new one, never a torn file.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/models"
)

const (
	ratingsFile      = "ratings.json"
	teamStatsFile    = "team_stats.json"
	gamesFile        = "games.json"
	gameIndexFile    = "games_cache.json"
	playerStatsFile  = "player_stats.json"
	missingGamesFile = "missing_games.json"
	missingGamesCSV  = "missing_games.csv"
)

// GameIndex is the set of game IDs already folded into the aggregates.
type GameIndex map[string]struct{}

// Has reports whether a game was already processed.
func (g GameIndex) Has(id string) bool {
	_, ok := g[id]
	return ok
}

// Add marks a game as processed.
func (g GameIndex) Add(id string) {
	g[id] = struct{}{}
}

// IDs returns the members in sorted order for stable persistence.
func (g GameIndex) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// State is everything a run needs to continue incrementally.
type State struct {
	Teams     []models.TeamSeasonAggregate
	Players   []models.PlayerSeasonAggregate
	GameLog   []models.GameLogEntry
	Processed GameIndex
}

// Output is the complete result of a successful run.
type Output struct {
	SeasonStart  string
	Teams        []models.TeamSeasonAggregate
	Players      []models.PlayerSeasonAggregate
	GameLog      []models.GameLogEntry
	Ratings      []models.RatingsRow
	ProcessedIDs []string
}

// Store reads and writes the state documents under one data directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the persisted state. A missing or malformed file degrades to
// its empty value so a first run (or a run after corruption) starts from a
// clean full rebuild instead of crashing.
func (s *Store) Load() *State {
	state := &State{Processed: make(GameIndex)}

	var teams models.TeamStatsDoc
	if s.loadJSON(teamStatsFile, &teams) {
		state.Teams = teams.Teams
	}

	var players models.PlayerStatsDoc
	if s.loadJSON(playerStatsFile, &players) {
		state.Players = players.Players
	}

	var games models.GamesDoc
	if s.loadJSON(gamesFile, &games) {
		state.GameLog = games.Games
	}

	var index models.GameIndexDoc
	if s.loadJSON(gameIndexFile, &index) {
		for _, id := range index.GameIDs {
			state.Processed.Add(id)
		}
	}

	log.Info().
		Int("teams", len(state.Teams)).
		Int("players", len(state.Players)).
		Int("games", len(state.GameLog)).
		Int("processed", len(state.Processed)).
		Msg("State loaded")

	return state
}

// loadJSON reads one document, returning false (empty state) when the file
// is absent or unreadable.
func (s *Store) loadJSON(name string, v interface{}) bool {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", path).Err(err).Msg("State file unreadable, starting empty")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Str("file", path).Err(err).Msg("State file malformed, starting empty")
		return false
	}
	return true
}

// Save persists the complete run output. The processed-ID list must already
// be the union with the previously loaded index; the store never shrinks it.
func (s *Store) Save(out Output) error {
	now := time.Now().UTC().Format(time.RFC3339)

	docs := []struct {
		name string
		v    interface{}
	}{
		{ratingsFile, models.RatingsDoc{GeneratedAtUTC: now, SeasonStart: out.SeasonStart, Rows: out.Ratings}},
		{teamStatsFile, models.TeamStatsDoc{GeneratedAtUTC: now, Teams: out.Teams}},
		{gamesFile, models.GamesDoc{GeneratedAtUTC: now, Games: out.GameLog}},
		{gameIndexFile, models.GameIndexDoc{GeneratedAtUTC: now, TotalGames: len(out.ProcessedIDs), GameIDs: out.ProcessedIDs}},
		{playerStatsFile, models.PlayerStatsDoc{GeneratedAtUTC: now, Players: out.Players}},
	}

	for _, doc := range docs {
		if err := s.writeJSON(doc.name, doc.v); err != nil {
			return err
		}
	}

	log.Info().
		Int("teams", len(out.Teams)).
		Int("games", len(out.GameLog)).
		Int("processed", len(out.ProcessedIDs)).
		Msg("State saved")

	return nil
}

// SaveMissingGames persists the audit result as JSON and CSV.
func (s *Store) SaveMissingGames(missing []models.MissingGame, totalChecked int) error {
	doc := models.MissingGamesDoc{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		TotalChecked:   totalChecked,
		Missing:        missing,
	}
	if err := s.writeJSON(missingGamesFile, doc); err != nil {
		return err
	}

	records := [][]string{{"gameId", "date", "ncaaUrl", "status"}}
	for _, m := range missing {
		records = append(records, []string{m.GameID, m.Date, m.URL, m.Status})
	}

	return s.writeAtomic(missingGamesCSV, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.WriteAll(records); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	})
}

// writeJSON atomically writes one document.
func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.writeAtomic(name, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// writeAtomic writes to a temp file in the target directory then renames it
// over the destination.
func (s *Store) writeAtomic(name string, write func(*os.File) error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
