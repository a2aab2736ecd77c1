package repository

import (
	"context"
	"fmt"

	"wbb_analytics/ingestion/internal/metrics"
	"wbb_analytics/ingestion/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// UpsertAggregate inserts or updates one player's season-to-date aggregate.
func (r *PlayerRepository) UpsertAggregate(ctx context.Context, player *models.PlayerSeasonAggregate) error {
	query := `
		INSERT INTO player_season_stats (
			player_id, name, team_id, team_name, games, minutes,
			points, fgm, fga, tpm, tpa, ftm, fta,
			orb, drb, trb, ast, stl, blk, tov, pf
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (player_id) DO UPDATE SET
			name = EXCLUDED.name,
			team_id = EXCLUDED.team_id,
			team_name = EXCLUDED.team_name,
			games = EXCLUDED.games,
			minutes = EXCLUDED.minutes,
			points = EXCLUDED.points,
			fgm = EXCLUDED.fgm,
			fga = EXCLUDED.fga,
			tpm = EXCLUDED.tpm,
			tpa = EXCLUDED.tpa,
			ftm = EXCLUDED.ftm,
			fta = EXCLUDED.fta,
			orb = EXCLUDED.orb,
			drb = EXCLUDED.drb,
			trb = EXCLUDED.trb,
			ast = EXCLUDED.ast,
			stl = EXCLUDED.stl,
			blk = EXCLUDED.blk,
			tov = EXCLUDED.tov,
			pf = EXCLUDED.pf,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		player.PlayerID, player.Name, player.TeamID, player.TeamName,
		player.Games, player.Minutes,
		player.Points, player.FieldGoalsMade, player.FieldGoalsAttempted,
		player.ThreeMade, player.ThreeAttempted,
		player.FreeThrowsMade, player.FreeThrowsAttempted,
		player.OffensiveRebounds, player.DefensiveRebounds, player.TotalRebounds,
		player.Assists, player.Steals, player.Blocks, player.Turnovers, player.PersonalFouls,
	)

	if err != nil {
		metrics.RecordDBQuery("upsert", "player_season_stats", "error")
		return fmt.Errorf("failed to upsert player aggregate: %w", err)
	}

	metrics.RecordDBQuery("upsert", "player_season_stats", "success")
	return nil
}

// ListByTeam retrieves all stored player aggregates for one team
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]*models.PlayerSeasonAggregate, error) {
	query := `
		SELECT player_id, name, team_id, team_name, games, minutes,
		       points, fgm, fga, tpm, tpa, ftm, fta,
		       orb, drb, trb, ast, stl, blk, tov, pf
		FROM player_season_stats
		WHERE team_id = $1
		ORDER BY points DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.PlayerSeasonAggregate
	for rows.Next() {
		var p models.PlayerSeasonAggregate
		err := rows.Scan(
			&p.PlayerID, &p.Name, &p.TeamID, &p.TeamName, &p.Games, &p.Minutes,
			&p.Points, &p.FieldGoalsMade, &p.FieldGoalsAttempted,
			&p.ThreeMade, &p.ThreeAttempted,
			&p.FreeThrowsMade, &p.FreeThrowsAttempted,
			&p.OffensiveRebounds, &p.DefensiveRebounds, &p.TotalRebounds,
			&p.Assists, &p.Steals, &p.Blocks, &p.Turnovers, &p.PersonalFouls,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}
