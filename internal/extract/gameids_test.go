package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGameIDs(t *testing.T) {
	payload := map[string]interface{}{
		"games": []interface{}{
			map[string]interface{}{
				"game": map[string]interface{}{"url": "/game/6309123"},
			},
			map[string]interface{}{
				"game": map[string]interface{}{
					"url":         "/game/6309050",
					"boxscoreUrl": "/game/6309050/boxscore",
				},
			},
		},
		"featured": "see https://www.ncaa.com/game/6309200 tonight",
	}

	ids := ExtractGameIDs(payload)
	assert.Equal(t, []string{"6309050", "6309123", "6309200"}, ids,
		"Deduplicated and sorted regardless of nesting depth")
}

func TestExtractGameIDs_NoneFound(t *testing.T) {
	assert.Empty(t, ExtractGameIDs(map[string]interface{}{"message": "no games today"}))
	assert.Empty(t, ExtractGameIDs(nil))
	assert.Empty(t, ExtractGameIDs("plain string without references"))
}
