package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://ncaa-api.henrygd.me", cfg.NCAAAPIBaseURL)
	assert.Equal(t, "basketball-women", cfg.Sport)
	assert.Equal(t, "d1", cfg.Division)
	assert.Equal(t, 4, cfg.BoxConcurrency)
	assert.Equal(t, 3, cfg.RequestRetries)
	assert.Equal(t, 300, cfg.MinTeamsRequired)
	assert.Equal(t, 2, cfg.IncrementalDays)
	assert.Equal(t, "public/data", cfg.DataDir)
	assert.False(t, cfg.EnableDatabaseSync)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SEASON_START", "2026-11-02")
	t.Setenv("BOX_CONCURRENCY", "8")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", cfg.SeasonStart)
	assert.Equal(t, 8, cfg.BoxConcurrency)
	assert.True(t, cfg.IsProduction())
}

func TestValidate_BadSeasonStart(t *testing.T) {
	t.Setenv("SEASON_START", "November 1st")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEASON_START")
}

func TestValidate_BoxConcurrency(t *testing.T) {
	t.Setenv("BOX_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOX_CONCURRENCY")
}

func TestValidate_DatabasePasswordRequired(t *testing.T) {
	t.Setenv("ENABLE_DATABASE_SYNC", "true")
	t.Setenv("DATABASE_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_PASSWORD")
}

func TestSeasonStartDate(t *testing.T) {
	t.Setenv("SEASON_START", "2025-11-01")

	cfg, err := Load()
	require.NoError(t, err)

	d := cfg.SeasonStartDate()
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 11, int(d.Month()))
	assert.Equal(t, 1, d.Day())
}

func TestDatabaseDSNAndRedisAddr(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.DatabaseDSN(), "host=localhost")
	assert.Contains(t, cfg.DatabaseDSN(), "dbname=wbb_analytics")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}
