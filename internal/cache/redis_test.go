//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbb_analytics/ingestion/internal/models"
)

// Integration tests for the ratings cache
// Run with: go test -v -tags=integration ./internal/cache/...

func TestRatingsRoundTrip(t *testing.T) {
	rc, err := NewRedisCache("localhost:6379", "", 0, time.Minute)
	require.NoError(t, err, "Failed to connect to test Redis")
	defer rc.Close()

	ctx := context.Background()
	require.NoError(t, rc.HealthCheck(ctx))

	doc := models.RatingsDoc{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		SeasonStart:    "2025-11-01",
		Rows: []models.RatingsRow{
			{TeamID: "556", Team: "UConn", Games: 2, AdjO: 108.2, AdjD: 82.4, AdjEM: 25.8, AdjT: 71.6},
		},
	}
	require.NoError(t, rc.SetRatings(ctx, doc))

	got, ok, err := rc.GetRatings(ctx)
	require.NoError(t, err)
	require.True(t, ok, "Freshly written document should be a hit")
	assert.Equal(t, doc.SeasonStart, got.SeasonStart)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "UConn", got.Rows[0].Team)
}
