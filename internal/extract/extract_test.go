package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statLine builds one team's totals object bearing the team identifier.
func statLine(teamID string, points, fga, orb, tov, fta int) map[string]interface{} {
	return map[string]interface{}{
		"teamId":              teamID,
		"points":              points,
		"fieldGoalsAttempted": fga,
		"offensiveRebounds":   orb,
		"turnovers":           tov,
		"freeThrowsAttempted": fta,
	}
}

func TestExtractGame_HomeAwayIndicator(t *testing.T) {
	// Away listed first; the indicator, not position, must decide.
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "2", "nameShort": "Baylor", "isHome": false},
			map[string]interface{}{"teamId": "1", "nameShort": "UConn", "isHome": true},
		},
		"stats": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	game, ok := ExtractGame("6309123", payload, "2025-11-05")
	require.True(t, ok, "Payload with teams and totals should parse")

	assert.Equal(t, "6309123", game.GameID)
	assert.Equal(t, "2025-11-05", game.Date)
	assert.Equal(t, "1", game.Home.TeamID)
	assert.Equal(t, "UConn", game.Home.TeamName)
	assert.Equal(t, "2", game.Away.TeamID)
	assert.Equal(t, "Baylor", game.Away.TeamName)
	assert.Equal(t, 70, game.Home.Stats.Points)
	assert.Equal(t, 65, game.Away.Stats.Points)
}

func TestExtractGame_StringIndicator(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "2", "name": "Baylor", "homeAway": "away"},
			map[string]interface{}{"teamId": "1", "name": "UConn", "homeAway": "home"},
		},
		"stats": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, "1", game.Home.TeamID)
	assert.Equal(t, "2", game.Away.TeamID)
}

func TestExtractGame_PositionalFallback(t *testing.T) {
	// No usable indicator anywhere: first team is home by convention.
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "9", "name": "Iowa"},
			map[string]interface{}{"teamId": "4", "name": "LSU"},
		},
		"stats": []interface{}{
			statLine("9", 80, 62, 9, 10, 20),
			statLine("4", 77, 58, 11, 13, 16),
		},
	}

	game, ok := ExtractGame("2", payload, "2025-11-06")
	require.True(t, ok)
	assert.Equal(t, "9", game.Home.TeamID)
	assert.Equal(t, "4", game.Away.TeamID)
}

func TestExtractGame_SynonymEquivalence(t *testing.T) {
	canonical := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"stats": []interface{}{
			map[string]interface{}{
				"teamId": "1", "points": 70, "fieldGoalsMade": 25, "fieldGoalsAttempted": 60,
				"threePointsMade": 8, "threePointsAttempted": 22,
				"freeThrowsMade": 12, "freeThrowsAttempted": 15,
				"offensiveRebounds": 10, "defensiveRebounds": 24, "totalRebounds": 34,
				"assists": 15, "steals": 7, "blocks": 3, "turnovers": 12, "fouls": 14,
			},
			statLine("2", 65, 55, 8, 14, 18),
		},
	}
	abbreviated := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"stats": []interface{}{
			map[string]interface{}{
				"teamId": "1", "pts": 70, "fgm": 25, "fga": 60,
				"3pm": 8, "3pa": 22, "ftm": 12, "fta": 15,
				"oreb": 10, "dreb": 24, "treb": 34,
				"ast": 15, "stl": 7, "blk": 3, "tov": 12, "pf": 14,
			},
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	g1, ok := ExtractGame("1", canonical, "2025-11-05")
	require.True(t, ok)
	g2, ok := ExtractGame("1", abbreviated, "2025-11-05")
	require.True(t, ok)

	assert.Equal(t, g1.Home.Stats, g2.Home.Stats, "Synonym names must resolve to identical totals")
}

func TestExtractGame_NestedTeamsPath(t *testing.T) {
	payload := map[string]interface{}{
		"game": map[string]interface{}{
			"teams": []interface{}{
				map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
				map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
			},
		},
		"stats": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	_, ok := ExtractGame("1", payload, "2025-11-05")
	assert.True(t, ok, "Teams under game.teams should be found")
}

func TestExtractGame_DFSTeamDiscovery(t *testing.T) {
	// Teams in a container not on the known-path list; DFS must find them.
	payload := map[string]interface{}{
		"matchup": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"totalsById": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, "A", game.Home.TeamName)
}

func TestExtractGame_DisambiguatesByVolume(t *testing.T) {
	// The partial line (period totals) must lose to the full box line.
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"periods": []interface{}{
			statLine("1", 18, 15, 2, 3, 4),
			statLine("2", 12, 14, 1, 4, 2),
		},
		"stats": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, 70, game.Home.Stats.Points)
	assert.Equal(t, 60, game.Home.Stats.FieldGoalsAttempted)
}

func TestExtractGame_NestedStatsContainer(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{
				"teamId": "1", "name": "A", "isHome": true,
				"teamStats": map[string]interface{}{"points": 70, "fga": 60, "fta": 15},
			},
			map[string]interface{}{
				"teamId": "2", "name": "B", "isHome": false,
				"teamStats": map[string]interface{}{"points": 65, "fga": 55, "fta": 18},
			},
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, 70, game.Home.Stats.Points)
	assert.Equal(t, 65, game.Away.Stats.Points)
}

func TestExtractGame_DerivedDefensiveRebounds(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"stats": []interface{}{
			map[string]interface{}{
				"teamId": "1", "points": 70, "fga": 60, "fta": 15,
				"offensiveRebounds": 10, "totalRebounds": 34,
			},
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, 24, game.Home.Stats.DefensiveRebounds, "drb = trb - orb when the source omits it")
}

func TestExtractGame_Unparseable(t *testing.T) {
	cases := map[string]interface{}{
		"no teams anywhere": map[string]interface{}{
			"message": "game not found",
		},
		"one team only": map[string]interface{}{
			"teams": []interface{}{
				map[string]interface{}{"teamId": "1", "name": "A"},
			},
		},
		"teams but no totals": map[string]interface{}{
			"teams": []interface{}{
				map[string]interface{}{"teamId": "1", "name": "A"},
				map[string]interface{}{"teamId": "2", "name": "B"},
			},
		},
		"non-object payload": []interface{}{"a", "b"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ExtractGame("1", payload, "2025-11-05")
			assert.False(t, ok)
		})
	}
}

func TestExtractGame_StringNumbers(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"teamId": "1", "name": "A", "isHome": true},
			map[string]interface{}{"teamId": "2", "name": "B", "isHome": false},
		},
		"stats": []interface{}{
			map[string]interface{}{"teamId": "1", "points": "70", "fga": "60", "fta": "15"},
			map[string]interface{}{"teamId": "2", "points": "65", "fga": "55", "fta": "18"},
		},
	}

	game, ok := ExtractGame("1", payload, "2025-11-05")
	require.True(t, ok)
	assert.Equal(t, 70, game.Home.Stats.Points, "Stringly-typed numbers must coerce")
}

func TestExtractPlayerLines(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{
				"teamId": "1", "name": "UConn",
				"players": []interface{}{
					map[string]interface{}{
						"playerId": "p100", "name": "J. Smith", "minutes": 31.5,
						"points": 22, "fga": 15, "fta": 6,
					},
					map[string]interface{}{
						// No id: a stable fallback key must be synthesized
						"name": "A. Jones", "minutes": 12,
						"points": 5, "fga": 4, "fta": 0,
					},
					map[string]interface{}{
						// DNP row: no counting stats, must be dropped
						"name": "B. Brown", "minutes": 0,
					},
				},
			},
		},
	}

	lines := ExtractPlayerLines(payload)
	require.Len(t, lines, 2)

	assert.Equal(t, "p100", lines[0].PlayerID)
	assert.Equal(t, "1", lines[0].TeamID)
	assert.Equal(t, 22, lines[0].Stats.Points)
	assert.InDelta(t, 31.5, lines[0].Minutes, 0.001)

	assert.Equal(t, "1:a.-jones", lines[1].PlayerID)
	assert.Equal(t, "A. Jones", lines[1].Name)
}

func TestExtractPlayerLines_TeamObjectsNotPlayers(t *testing.T) {
	// Team meta carries a name plus totals; it must never become a player row.
	payload := map[string]interface{}{
		"stats": []interface{}{
			statLine("1", 70, 60, 10, 12, 15),
			statLine("2", 65, 55, 8, 14, 18),
		},
	}

	lines := ExtractPlayerLines(payload)
	assert.Empty(t, lines)
}
