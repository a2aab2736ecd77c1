package extract

import (
	"strings"

	"wbb_analytics/ingestion/internal/models"
)

// looksLikePlayer reports whether an object resembles a player row rather
// than a team or meta block.
func looksLikePlayer(obj map[string]interface{}) bool {
	if _, ok := pick(obj, []string{"name", "player"}); ok {
		return true
	}
	if _, ok := pick(obj, []string{"jersey", "number"}); ok {
		return true
	}
	return false
}

// ExtractPlayerLines walks a box-score payload for player stat tables.
// Player arrays live under team objects, so the nearest enclosing team
// identifier is carried down the walk to attribute each line. Lines without
// any statistical signal (DNP rows, header rows) are dropped.
func ExtractPlayerLines(payload interface{}) []models.PlayerGameLine {
	var out []models.PlayerGameLine

	var walk func(x interface{}, teamID string)
	walk = func(x interface{}, teamID string) {
		switch v := x.(type) {
		case []interface{}:
			for _, item := range v {
				obj, ok := item.(map[string]interface{})
				if !ok {
					walk(item, teamID)
					continue
				}
				// Objects bearing a team identifier are team blocks, not
				// player rows, even when they also carry a name field.
				_, isTeam := pick(obj, teamIDKeys)
				if !isTeam && looksLikePlayer(obj) {
					if line, ok := playerLine(obj, teamID); ok {
						out = append(out, line)
						continue
					}
				}
				walk(obj, teamID)
			}
		case map[string]interface{}:
			if id := pickString(v, teamIDKeys, ""); id != "" {
				teamID = id
			}
			for _, k := range sortedKeys(v) {
				walk(v[k], teamID)
			}
		}
	}
	walk(payload, "")
	return out
}

// playerLine resolves one player row. The second return is false when the
// row carries no counting stats at all.
func playerLine(obj map[string]interface{}, teamID string) (models.PlayerGameLine, bool) {
	stats := extractTotals(obj)

	// Some payloads nest the numbers one level down
	if stats.IsZero() {
		if nestedVal, ok := pick(obj, statsContainerKeys); ok {
			if nested, ok := nestedVal.(map[string]interface{}); ok {
				stats = extractTotals(nested)
			}
		}
	}
	if stats.IsZero() {
		return models.PlayerGameLine{}, false
	}

	name := pickString(obj, playerNameKeys, "")
	if name == "" {
		if first := pickString(obj, []string{"firstName", "first_name"}, ""); first != "" {
			name = strings.TrimSpace(first + " " + pickString(obj, []string{"lastName", "last_name"}, ""))
		}
	}
	if name == "" {
		return models.PlayerGameLine{}, false
	}

	id := pickString(obj, playerIDKeys, "")
	if id == "" {
		// Stable fallback key: team plus normalized name
		id = teamID + ":" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	}

	return models.PlayerGameLine{
		PlayerID: id,
		Name:     name,
		TeamID:   teamID,
		Minutes:  pickFloat(obj, minutesKeys, 0),
		Stats:    normalizeTotals(stats),
	}, true
}
