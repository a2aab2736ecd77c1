//go:build integration

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbb_analytics/ingestion/internal/models"
)

func TestTeamRepository_UpsertAggregate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.TeamSeasonAggregate{
		TeamID:              "556",
		TeamName:            "UConn",
		Games:               2,
		Wins:                2,
		Points:              155,
		FieldGoalsAttempted: 122,
		OppPoints:           118,
	}
	rating := models.RatingsRow{TeamID: "556", AdjO: 108.2, AdjD: 82.4, AdjEM: 25.8, AdjT: 71.6}

	// Insert new aggregate
	err := db.Teams.UpsertAggregate(ctx, team, rating)
	require.NoError(t, err, "Should successfully insert team aggregate")

	// Verify it was created
	retrieved, err := db.Teams.GetByTeamID(ctx, team.TeamID)
	require.NoError(t, err, "Should retrieve inserted aggregate")
	assert.Equal(t, team.TeamName, retrieved.TeamName, "Team names should match")
	assert.Equal(t, team.Points, retrieved.Points, "Points should match")

	// Update after another folded game
	team.Games = 3
	team.Wins = 3
	team.Points = 230
	err = db.Teams.UpsertAggregate(ctx, team, rating)
	require.NoError(t, err, "Should successfully update aggregate")

	updated, err := db.Teams.GetByTeamID(ctx, team.TeamID)
	require.NoError(t, err, "Should retrieve updated aggregate")
	assert.Equal(t, 3, updated.Games, "Games should be replaced, not merged")
	assert.Equal(t, 230, updated.Points)
}

func TestGameRepository_InsertLogEntry(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := &models.GameLogEntry{
		GameID:    "6309123",
		Date:      "2025-11-05",
		HomeID:    "556",
		HomeTeam:  "UConn",
		HomeScore: 70,
		AwayID:    "51",
		AwayTeam:  "Baylor",
		AwayScore: 65,
	}

	err := db.Games.InsertLogEntry(ctx, game)
	require.NoError(t, err, "Should insert game")

	// Completed games never change: a second insert is a silent no-op
	err = db.Games.InsertLogEntry(ctx, game)
	require.NoError(t, err, "Conflicting insert should be a no-op")

	games, err := db.Games.ListByDate(ctx, "2025-11-05")
	require.NoError(t, err)

	var found int
	for _, g := range games {
		if g.GameID == game.GameID {
			found++
			assert.Equal(t, 70, g.HomeScore)
		}
	}
	assert.Equal(t, 1, found, "Exactly one row per game")
}

func TestPlayerRepository_UpsertAggregate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	player := &models.PlayerSeasonAggregate{
		PlayerID: "p-12345",
		Name:     "J. Smith",
		TeamID:   "556",
		TeamName: "UConn",
		Games:    2,
		Minutes:  61.5,
		Points:   44,
	}

	err := db.Players.UpsertAggregate(ctx, player)
	require.NoError(t, err, "Should insert player aggregate")

	players, err := db.Players.ListByTeam(ctx, "556")
	require.NoError(t, err)

	var found bool
	for _, p := range players {
		if p.PlayerID == player.PlayerID {
			found = true
			assert.Equal(t, 44, p.Points)
			assert.InDelta(t, 61.5, p.Minutes, 0.001)
		}
	}
	assert.True(t, found, "Inserted player should be listed for the team")
}
