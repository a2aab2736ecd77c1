// Package extract turns arbitrarily-shaped NCAA API JSON payloads into typed
// box scores. The upstream's field names drift across payloads, so every
// statistical concept is resolved through an ordered synonym list against a
// generic tree walk. Shape drift should only ever require touching this
// package.
package extract

import (
	"sort"
	"strconv"
	"strings"

	"wbb_analytics/ingestion/internal/models"
)

// Field synonyms observed across upstream payload variants, in priority order.
var (
	teamIDKeys = []string{"teamId", "team_id", "id"}

	teamNameKeys = []string{"nameShort", "name_short", "shortName", "nameFull", "name_full", "fullName", "name"}

	homeAwayKeys = []string{"isHome", "home", "is_home", "homeAway", "home_away"}

	// Nested objects that hold a team's statistical totals
	statsContainerKeys = []string{"teamStats", "team_stats", "statistics", "stats", "totals"}

	pointsKeys  = []string{"points", "pts", "score"}
	fgmKeys     = []string{"fieldGoalsMade", "fgm", "fgMade"}
	fgaKeys     = []string{"fieldGoalsAttempted", "fga", "fgAttempts"}
	tpmKeys     = []string{"threePointsMade", "3pm", "threePointersMade", "threePtMade"}
	tpaKeys     = []string{"threePointsAttempted", "3pa", "threePointersAttempted", "threePtAttempts"}
	ftmKeys     = []string{"freeThrowsMade", "ftm", "ftMade"}
	ftaKeys     = []string{"freeThrowsAttempted", "fta", "ftAttempts"}
	orbKeys     = []string{"offensiveRebounds", "oreb", "offReb", "orb"}
	drbKeys     = []string{"defensiveRebounds", "dreb", "defReb", "drb"}
	trbKeys     = []string{"totalRebounds", "treb", "rebounds", "reb", "trb"}
	astKeys     = []string{"assists", "ast"}
	stlKeys     = []string{"steals", "stl"}
	blkKeys     = []string{"blocks", "blk"}
	tovKeys     = []string{"turnovers", "tov", "to"}
	pfKeys      = []string{"fouls", "pf", "personalFouls"}
	minutesKeys = []string{"minutes", "mins", "min"}

	playerNameKeys = []string{"name", "player", "playerName", "fullName"}
	playerIDKeys   = []string{"playerId", "player_id", "id"}
)

// pick returns the first non-nil value among the synonym keys.
func pick(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// pickString resolves a synonym list to a string, or the default.
func pickString(obj map[string]interface{}, keys []string, def string) string {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return def
		}
		return s
	case float64:
		return formatNumericID(s)
	default:
		return def
	}
}

// pickInt resolves a synonym list to an int, or the default.
func pickInt(obj map[string]interface{}, keys []string, def int) int {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	return toInt(v, def)
}

// pickFloat resolves a synonym list to a float64, or the default.
func pickFloat(obj map[string]interface{}, keys []string, def float64) float64 {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	return toFloat(v, def)
}

// toInt coerces a JSON value to an int. Unparseable input yields the default,
// never an error: partial data is accepted, not rejected.
func toInt(v interface{}, def int) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return def
}

// toFloat coerces a JSON value to a float64 with the same tolerance as toInt.
func toFloat(v interface{}, def float64) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return def
}

// formatNumericID renders a JSON number as an identifier string without a
// trailing ".0" ("12345", not "12345.000000").
func formatNumericID(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// extractTotals resolves every statistical concept from one object through
// its synonym list, defaulting missing or unparseable fields to zero.
func extractTotals(obj map[string]interface{}) models.StatTotals {
	return models.StatTotals{
		Points:              pickInt(obj, pointsKeys, 0),
		FieldGoalsMade:      pickInt(obj, fgmKeys, 0),
		FieldGoalsAttempted: pickInt(obj, fgaKeys, 0),
		ThreeMade:           pickInt(obj, tpmKeys, 0),
		ThreeAttempted:      pickInt(obj, tpaKeys, 0),
		FreeThrowsMade:      pickInt(obj, ftmKeys, 0),
		FreeThrowsAttempted: pickInt(obj, ftaKeys, 0),
		OffensiveRebounds:   pickInt(obj, orbKeys, 0),
		DefensiveRebounds:   pickInt(obj, drbKeys, 0),
		TotalRebounds:       pickInt(obj, trbKeys, 0),
		Assists:             pickInt(obj, astKeys, 0),
		Steals:              pickInt(obj, stlKeys, 0),
		Blocks:              pickInt(obj, blkKeys, 0),
		Turnovers:           pickInt(obj, tovKeys, 0),
		PersonalFouls:       pickInt(obj, pfKeys, 0),
	}
}

// hasSignal reports whether a totals record looks like a real box line.
// Roster entries and zeroed duplicates resolve to all zeros on the volume
// fields and are discarded.
func hasSignal(s models.StatTotals) bool {
	return s.Points != 0 || s.FieldGoalsAttempted != 0 || s.FreeThrowsAttempted != 0
}

// sortedKeys returns the object's keys in lexical order so tree walks are
// deterministic regardless of map iteration order.
func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
