package walker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbb_analytics/ingestion/internal/client"
	"wbb_analytics/ingestion/internal/config"
	"wbb_analytics/ingestion/internal/models"
	"wbb_analytics/ingestion/internal/store"
)

// fakeFetcher serves canned scoreboard and box-score payloads keyed by date
// and game ID.
type fakeFetcher struct {
	mu             sync.Mutex
	scoreboards    map[string]interface{}
	scoreboardErrs map[string]error
	boxes          map[string]interface{}
	boxErrs        map[string]error
	boxCalls       map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		scoreboards:    make(map[string]interface{}),
		scoreboardErrs: make(map[string]error),
		boxes:          make(map[string]interface{}),
		boxErrs:        make(map[string]error),
		boxCalls:       make(map[string]int),
	}
}

func (f *fakeFetcher) FetchScoreboard(_ context.Context, _, _ string, day time.Time) (interface{}, error) {
	key := day.Format("2006-01-02")
	if err, ok := f.scoreboardErrs[key]; ok {
		return nil, err
	}
	return f.scoreboards[key], nil
}

func (f *fakeFetcher) FetchBoxScore(_ context.Context, gameID string) (interface{}, error) {
	f.mu.Lock()
	f.boxCalls[gameID]++
	f.mu.Unlock()

	if err, ok := f.boxErrs[gameID]; ok {
		return nil, err
	}
	if payload, ok := f.boxes[gameID]; ok {
		return payload, nil
	}
	return nil, &client.FetchError{Kind: client.FailHTTP, Status: 404, Path: "/game/" + gameID + "/boxscore"}
}

func (f *fakeFetcher) calls(gameID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.boxCalls[gameID]
}

func scoreboardPayload(ids ...string) interface{} {
	var games []interface{}
	for _, id := range ids {
		games = append(games, map[string]interface{}{
			"game": map[string]interface{}{"url": "/game/" + id},
		})
	}
	return map[string]interface{}{"games": games}
}

func boxPayload(homeID string, homePts int, awayID string, awayPts int) interface{} {
	line := func(id string, pts int) map[string]interface{} {
		return map[string]interface{}{
			"teamId": id, "points": pts, "fga": 60, "fta": 15,
			"oreb": 10, "treb": 34, "tov": 12,
		}
	}
	return map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": homeID, "name": "Team " + homeID, "isHome": true},
			map[string]interface{}{"teamId": awayID, "name": "Team " + awayID, "isHome": false},
		},
		"stats": []interface{}{line(homeID, homePts), line(awayID, awayPts)},
	}
}

func testConfig(dataDir string) *config.Config {
	return &config.Config{
		Sport:            "basketball-women",
		Division:         "d1",
		SeasonStart:      time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02"),
		BoxConcurrency:   2,
		IncrementalDays:  2,
		MinTeamsRequired: 2,
		DataDir:          dataDir,
	}
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestRun_FullBuild(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100", "101")
	// The same game listed again the next day must not be fetched twice
	f.scoreboards[day(0)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)
	f.boxes["101"] = boxPayload("3", 80, "4", 75)

	st := store.New(dir)
	w := New(testConfig(dir), f, st, nil, nil)

	res, err := w.Run(context.Background(), ModeFull, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Discovered)
	assert.Equal(t, 2, res.Folded)
	assert.Equal(t, 4, res.Teams)
	assert.Equal(t, 3, res.DaysWalked)
	assert.Equal(t, 1, f.calls("100"))

	state := st.Load()
	assert.True(t, state.Processed.Has("100"))
	assert.True(t, state.Processed.Has("101"))
	require.Len(t, state.Teams, 4)
	assert.Len(t, state.GameLog, 2)

	data, err := os.ReadFile(filepath.Join(dir, "ratings.json"))
	require.NoError(t, err)
	var doc models.RatingsDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Rows, 4)
}

func TestRun_IncrementalSkipsProcessed(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)

	st := store.New(dir)
	w := New(testConfig(dir), f, st, nil, nil)

	_, err := w.Run(context.Background(), ModeFull, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, f.calls("100"))

	res, err := w.Run(context.Background(), ModeIncremental, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Discovered, "Processed games are filtered before fetching")
	assert.Equal(t, 0, res.Folded)
	assert.Equal(t, 1, f.calls("100"), "No refetch of a processed game")

	state := st.Load()
	require.Len(t, state.Teams, 2)
	assert.Equal(t, 1, state.Teams[0].Games, "Re-running must not double-count")
}

func TestRun_IncrementalAddsNewGames(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)

	st := store.New(dir)
	w := New(testConfig(dir), f, st, nil, nil)

	_, err := w.Run(context.Background(), ModeFull, Options{})
	require.NoError(t, err)

	f.scoreboards[day(0)] = scoreboardPayload("101")
	f.boxes["101"] = boxPayload("1", 80, "3", 75)

	res, err := w.Run(context.Background(), ModeIncremental, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Folded)

	state := st.Load()
	require.Len(t, state.Teams, 3)
	for _, team := range state.Teams {
		if team.TeamID == "1" {
			assert.Equal(t, 2, team.Games)
			assert.Equal(t, 150, team.Points)
		}
	}
}

func TestRun_UnparseableNotMarkedProcessed(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100", "102")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)
	f.boxes["102"] = map[string]interface{}{"message": "box score pending"}

	st := store.New(dir)
	w := New(testConfig(dir), f, st, nil, nil)

	res, err := w.Run(context.Background(), ModeFull, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Folded)
	assert.Equal(t, 1, res.ParseFailures)

	state := st.Load()
	assert.True(t, state.Processed.Has("100"))
	assert.False(t, state.Processed.Has("102"), "Unparseable game must be retried by a later run")
}

func TestRun_ScoreboardFailureSkipsDay(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboardErrs[day(-2)] = errors.New("upstream down")
	f.scoreboards[day(-1)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)

	w := New(testConfig(dir), f, store.New(dir), nil, nil)

	res, err := w.Run(context.Background(), ModeFull, Options{})
	require.NoError(t, err, "A failed day is skipped, not fatal")
	assert.Equal(t, 1, res.DaysSkipped)
	assert.Equal(t, 1, res.Folded)
}

func TestRun_SanityFloorRefusesPersist(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)

	cfg := testConfig(dir)
	cfg.MinTeamsRequired = 300
	w := New(cfg, f, store.New(dir), nil, nil)

	_, err := w.Run(context.Background(), ModeFull, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below the floor")

	_, statErr := os.Stat(filepath.Join(dir, "ratings.json"))
	assert.True(t, os.IsNotExist(statErr), "Nothing persisted under the floor")
}

func TestRun_DryRunPersistsNothing(t *testing.T) {
	dir := t.TempDir()
	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100")
	f.boxes["100"] = boxPayload("1", 70, "2", 65)

	w := New(testConfig(dir), f, store.New(dir), nil, nil)

	res, err := w.Run(context.Background(), ModeFull, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Folded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_Audit(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir)
	require.NoError(t, st.Save(store.Output{
		SeasonStart:  day(-2),
		Teams:        []models.TeamSeasonAggregate{{TeamID: "1"}, {TeamID: "2"}},
		ProcessedIDs: []string{"100"},
	}))

	f := newFakeFetcher()
	f.scoreboards[day(-1)] = scoreboardPayload("100", "101", "102")
	f.boxErrs["101"] = &client.FetchError{Kind: client.FailHTTP, Status: 404, Path: "/game/101/boxscore"}
	f.boxes["102"] = map[string]interface{}{"message": "box score pending"}

	w := New(testConfig(dir), f, st, nil, nil)

	res, err := w.Run(context.Background(), ModeAudit, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Discovered)
	assert.Equal(t, 0, f.calls("100"), "Processed games are not probed")

	data, err := os.ReadFile(filepath.Join(dir, "missing_games.json"))
	require.NoError(t, err)
	var doc models.MissingGamesDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 3, doc.TotalChecked)
	require.Len(t, doc.Missing, 2)

	statuses := map[string]string{}
	for _, m := range doc.Missing {
		statuses[m.GameID] = m.Status
	}
	assert.Equal(t, "http_404", statuses["101"])
	assert.Equal(t, "unparseable", statuses["102"])

	_, err = os.Stat(filepath.Join(dir, "missing_games.csv"))
	assert.NoError(t, err)
}

func TestRun_UnknownMode(t *testing.T) {
	w := New(testConfig(t.TempDir()), newFakeFetcher(), store.New(t.TempDir()), nil, nil)
	_, err := w.Run(context.Background(), Mode("bogus"), Options{})
	require.Error(t, err)
}
