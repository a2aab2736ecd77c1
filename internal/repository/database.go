package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/models"
)

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	Teams   *TeamRepository
	Games   *GameRepository
	Players *PlayerRepository
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool configuration
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to database")

	db := &Database{
		Pool: pool,
	}

	db.Teams = &TeamRepository{db: db}
	db.Games = &GameRepository{db: db}
	db.Players = &PlayerRepository{db: db}

	return db, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// SyncSeason mirrors a finished run's aggregates into the database for the
// read side. The JSON state files remain the source of truth; any row that
// fails to write is logged and skipped so one bad row cannot abort the sync.
func (db *Database) SyncSeason(ctx context.Context, teams []models.TeamSeasonAggregate, ratings []models.RatingsRow, players []models.PlayerSeasonAggregate, games []models.GameLogEntry) error {
	start := time.Now()

	ratingByTeam := make(map[string]models.RatingsRow, len(ratings))
	for _, r := range ratings {
		ratingByTeam[r.TeamID] = r
	}

	var failed int
	for i := range teams {
		rating := ratingByTeam[teams[i].TeamID]
		if err := db.Teams.UpsertAggregate(ctx, &teams[i], rating); err != nil {
			failed++
			log.Warn().Str("team_id", teams[i].TeamID).Err(err).Msg("Team sync failed")
		}
	}

	for i := range games {
		if err := db.Games.InsertLogEntry(ctx, &games[i]); err != nil {
			failed++
			log.Warn().Str("game_id", games[i].GameID).Err(err).Msg("Game sync failed")
		}
	}

	for i := range players {
		if err := db.Players.UpsertAggregate(ctx, &players[i]); err != nil {
			failed++
			log.Warn().Str("player_id", players[i].PlayerID).Err(err).Msg("Player sync failed")
		}
	}

	log.Info().
		Int("teams", len(teams)).
		Int("games", len(games)).
		Int("players", len(players)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Database sync complete")

	if failed > 0 {
		return fmt.Errorf("database sync finished with %d failed rows", failed)
	}
	return nil
}
