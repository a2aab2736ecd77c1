package extract

import (
	"regexp"
	"sort"
)

// Scoreboard payloads embed game references as path-like strings
// ("/game/6309123") at unpredictable depths.
var gameRefPattern = regexp.MustCompile(`/game/(\d+)`)

// ExtractGameIDs walks a scoreboard payload for embedded game references and
// returns the deduplicated identifiers in a stable order.
func ExtractGameIDs(payload interface{}) []string {
	seen := make(map[string]struct{})

	var walk func(x interface{})
	walk = func(x interface{}) {
		switch v := x.(type) {
		case []interface{}:
			for _, item := range v {
				walk(item)
			}
		case map[string]interface{}:
			for _, k := range sortedKeys(v) {
				walk(v[k])
			}
		case string:
			for _, m := range gameRefPattern.FindAllStringSubmatch(v, -1) {
				seen[m[1]] = struct{}{}
			}
		}
	}
	walk(payload)

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
