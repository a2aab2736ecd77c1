package extract

import (
	"strings"

	"wbb_analytics/ingestion/internal/models"
)

// findTeamsMeta locates the two team-identity objects in a box-score payload.
// Known container paths are tried first; if none holds at least two
// id-bearing objects, the whole payload is walked depth-first for the first
// such array.
func findTeamsMeta(payload interface{}) []map[string]interface{} {
	root, _ := payload.(map[string]interface{})

	candidates := [][]string{
		{"teams"},
		{"game", "teams"},
		{"meta", "teams"},
		{"header", "teams"},
	}

	for _, path := range candidates {
		if arr := teamObjectsAt(root, path); len(arr) >= 2 {
			return arr
		}
	}

	var found []map[string]interface{}
	var walk func(x interface{})
	walk = func(x interface{}) {
		if found != nil {
			return
		}
		switch v := x.(type) {
		case []interface{}:
			if arr := idBearingObjects(v); len(arr) >= 2 {
				found = arr
				return
			}
			for _, item := range v {
				walk(item)
			}
		case map[string]interface{}:
			for _, k := range sortedKeys(v) {
				walk(v[k])
			}
		}
	}
	walk(payload)
	return found
}

// teamObjectsAt descends a container path and filters for id-bearing objects.
func teamObjectsAt(root map[string]interface{}, path []string) []map[string]interface{} {
	var cur interface{} = root
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	arr, ok := cur.([]interface{})
	if !ok {
		return nil
	}
	return idBearingObjects(arr)
}

// idBearingObjects keeps array members that are objects carrying a team
// identifier field.
func idBearingObjects(arr []interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if _, ok := pick(obj, teamIDKeys); ok {
			out = append(out, obj)
		}
	}
	return out
}

// isHome reads a home/away indicator, tolerating booleans and the string
// variants the upstream uses. The third return is false when the object
// carries no usable indicator.
func isHome(meta map[string]interface{}) (home, ok bool) {
	v, found := pick(meta, homeAwayKeys)
	if !found {
		return false, false
	}
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(x) {
		case "home", "h":
			return true, true
		case "away", "a":
			return false, true
		}
	}
	return false, false
}

// totalsCandidate is one possible box line for a team, found somewhere in
// the payload.
type totalsCandidate struct {
	teamID string
	stats  models.StatTotals
}

// collectTeamTotals walks the entire payload for objects bearing a team
// identifier, extracting a totals record from each directly and from any
// nested stats container. All-zero records carry no signal and are dropped.
func collectTeamTotals(payload interface{}) []totalsCandidate {
	var out []totalsCandidate

	var walk func(x interface{})
	walk = func(x interface{}) {
		switch v := x.(type) {
		case []interface{}:
			for _, item := range v {
				walk(item)
			}
		case map[string]interface{}:
			if id := pickString(v, teamIDKeys, ""); id != "" {
				if stats := extractTotals(v); hasSignal(stats) {
					out = append(out, totalsCandidate{teamID: id, stats: stats})
				}
				if nestedVal, ok := pick(v, statsContainerKeys); ok {
					if nested, ok := nestedVal.(map[string]interface{}); ok {
						if stats := extractTotals(nested); hasSignal(stats) {
							out = append(out, totalsCandidate{teamID: id, stats: stats})
						}
					}
				}
			}
			for _, k := range sortedKeys(v) {
				walk(v[k])
			}
		}
	}
	walk(payload)
	return out
}

// bestTotalsByTeam disambiguates duplicate candidates per team: box totals
// show up at multiple nesting depths, and the one with the most shot volume
// (FGA+FTA) is the real season line, not a partial or zeroed duplicate.
func bestTotalsByTeam(candidates []totalsCandidate) map[string]models.StatTotals {
	best := make(map[string]models.StatTotals)
	for _, c := range candidates {
		prev, seen := best[c.teamID]
		if !seen || c.stats.AttemptVolume() > prev.AttemptVolume() {
			best[c.teamID] = c.stats
		}
	}
	return best
}

// normalizeTotals enforces the box-score invariants: defensive rebounds are
// derived from total minus offensive when the source omitted them, and total
// rebounds can never be below the offensive count.
func normalizeTotals(s models.StatTotals) models.StatTotals {
	s.DefensiveRebounds = s.DefensiveOrDerived()
	if s.TotalRebounds < s.OffensiveRebounds {
		s.TotalRebounds = s.OffensiveRebounds + s.DefensiveRebounds
	}
	return s
}

// ExtractGame builds a GameBoxScore from a raw box-score payload. The second
// return is false when the payload holds no recognizable pair of teams with
// totals; such games must not be marked processed so a later run retries them.
func ExtractGame(gameID string, payload interface{}, date string) (*models.GameBoxScore, bool) {
	teams := findTeamsMeta(payload)
	if len(teams) < 2 {
		return nil, false
	}

	// Home/away from the indicator field when it resolves cleanly one of
	// each; positional order (first=home) otherwise. The fallback is a
	// documented behavior of the upstream, not an error.
	homeMeta, awayMeta := teams[0], teams[1]
	var homeIdx, awayIdx = -1, -1
	for i, t := range teams {
		if h, ok := isHome(t); ok {
			if h && homeIdx == -1 {
				homeIdx = i
			} else if !h && awayIdx == -1 {
				awayIdx = i
			}
		}
	}
	if homeIdx != -1 && awayIdx != -1 {
		homeMeta, awayMeta = teams[homeIdx], teams[awayIdx]
	}

	homeID := pickString(homeMeta, teamIDKeys, "")
	awayID := pickString(awayMeta, teamIDKeys, "")
	if homeID == "" || awayID == "" {
		return nil, false
	}

	totals := bestTotalsByTeam(collectTeamTotals(payload))
	homeStats, homeOK := totals[homeID]
	awayStats, awayOK := totals[awayID]
	if !homeOK || !awayOK {
		return nil, false
	}

	game := &models.GameBoxScore{
		GameID: gameID,
		Date:   date,
		Home: models.TeamGameLine{
			TeamID:   homeID,
			TeamName: pickString(homeMeta, teamNameKeys, "Home"),
			Stats:    normalizeTotals(homeStats),
		},
		Away: models.TeamGameLine{
			TeamID:   awayID,
			TeamName: pickString(awayMeta, teamNameKeys, "Away"),
			Stats:    normalizeTotals(awayStats),
		},
		Players: ExtractPlayerLines(payload),
	}

	return game, true
}
