package repository

import (
	"context"
	"fmt"

	"wbb_analytics/ingestion/internal/metrics"
	"wbb_analytics/ingestion/internal/models"
)

// GameRepository handles game-log database operations
type GameRepository struct {
	db *Database
}

// InsertLogEntry inserts one game-log row. Completed games never change, so
// a conflicting insert is a no-op rather than an update.
func (r *GameRepository) InsertLogEntry(ctx context.Context, game *models.GameLogEntry) error {
	query := `
		INSERT INTO games (
			game_id, game_date, home_team_id, home_team, home_score,
			away_team_id, away_team, away_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (game_id) DO NOTHING
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		game.GameID, game.Date,
		game.HomeID, game.HomeTeam, game.HomeScore,
		game.AwayID, game.AwayTeam, game.AwayScore,
	)

	if err != nil {
		metrics.RecordDBQuery("insert", "games", "error")
		return fmt.Errorf("failed to insert game: %w", err)
	}

	metrics.RecordDBQuery("insert", "games", "success")
	return nil
}

// ListByDate retrieves the game log for one day
func (r *GameRepository) ListByDate(ctx context.Context, date string) ([]*models.GameLogEntry, error) {
	query := `
		SELECT game_id, game_date, home_team, home_team_id, home_score,
		       away_team, away_team_id, away_score
		FROM games
		WHERE game_date = $1
		ORDER BY game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.GameLogEntry
	for rows.Next() {
		var g models.GameLogEntry
		err := rows.Scan(
			&g.GameID, &g.Date,
			&g.HomeTeam, &g.HomeID, &g.HomeScore,
			&g.AwayTeam, &g.AwayID, &g.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of stored games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
