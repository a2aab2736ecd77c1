package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wbb_analytics/ingestion/internal/metrics"
	"wbb_analytics/ingestion/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// UpsertAggregate inserts or updates one team's season-to-date aggregate and
// derived ratings line. Runs after every pipeline run, so the whole row is
// replaced rather than merged.
func (r *TeamRepository) UpsertAggregate(ctx context.Context, team *models.TeamSeasonAggregate, rating models.RatingsRow) error {
	query := `
		INSERT INTO team_season_stats (
			team_id, team_name, games, wins, losses,
			points, fgm, fga, tpm, tpa, ftm, fta,
			orb, drb, trb, ast, stl, blk, tov, pf,
			opp_points, opp_fgm, opp_fga, opp_tpm, opp_tpa, opp_ftm, opp_fta,
			opp_orb, opp_drb, opp_trb, opp_ast, opp_stl, opp_blk, opp_tov, opp_pf,
			adj_o, adj_d, adj_em, adj_t
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35,
			$36, $37, $38, $39
		)
		ON CONFLICT (team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			games = EXCLUDED.games,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
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
			opp_points = EXCLUDED.opp_points,
			opp_fgm = EXCLUDED.opp_fgm,
			opp_fga = EXCLUDED.opp_fga,
			opp_tpm = EXCLUDED.opp_tpm,
			opp_tpa = EXCLUDED.opp_tpa,
			opp_ftm = EXCLUDED.opp_ftm,
			opp_fta = EXCLUDED.opp_fta,
			opp_orb = EXCLUDED.opp_orb,
			opp_drb = EXCLUDED.opp_drb,
			opp_trb = EXCLUDED.opp_trb,
			opp_ast = EXCLUDED.opp_ast,
			opp_stl = EXCLUDED.opp_stl,
			opp_blk = EXCLUDED.opp_blk,
			opp_tov = EXCLUDED.opp_tov,
			opp_pf = EXCLUDED.opp_pf,
			adj_o = EXCLUDED.adj_o,
			adj_d = EXCLUDED.adj_d,
			adj_em = EXCLUDED.adj_em,
			adj_t = EXCLUDED.adj_t,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		team.TeamID, team.TeamName, team.Games, team.Wins, team.Losses,
		team.Points, team.FieldGoalsMade, team.FieldGoalsAttempted,
		team.ThreeMade, team.ThreeAttempted,
		team.FreeThrowsMade, team.FreeThrowsAttempted,
		team.OffensiveRebounds, team.DefensiveRebounds, team.TotalRebounds,
		team.Assists, team.Steals, team.Blocks, team.Turnovers, team.PersonalFouls,
		team.OppPoints, team.OppFieldGoalsMade, team.OppFieldGoalsAttempted,
		team.OppThreeMade, team.OppThreeAttempted,
		team.OppFreeThrowsMade, team.OppFreeThrowsAttempted,
		team.OppOffensiveRebounds, team.OppDefensiveRebounds, team.OppTotalRebounds,
		team.OppAssists, team.OppSteals, team.OppBlocks, team.OppTurnovers, team.OppPersonalFouls,
		rating.AdjO, rating.AdjD, rating.AdjEM, rating.AdjT,
	)

	if err != nil {
		metrics.RecordDBQuery("upsert", "team_season_stats", "error")
		return fmt.Errorf("failed to upsert team aggregate: %w", err)
	}

	metrics.RecordDBQuery("upsert", "team_season_stats", "success")
	return nil
}

// GetByTeamID retrieves one team's stored aggregate
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID string) (*models.TeamSeasonAggregate, error) {
	query := `
		SELECT team_id, team_name, games, wins, losses,
		       points, fgm, fga, tpm, tpa, ftm, fta,
		       orb, drb, trb, ast, stl, blk, tov, pf,
		       opp_points, opp_fgm, opp_fga, opp_tpm, opp_tpa, opp_ftm, opp_fta,
		       opp_orb, opp_drb, opp_trb, opp_ast, opp_stl, opp_blk, opp_tov, opp_pf
		FROM team_season_stats
		WHERE team_id = $1
	`

	var team models.TeamSeasonAggregate
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.TeamID, &team.TeamName, &team.Games, &team.Wins, &team.Losses,
		&team.Points, &team.FieldGoalsMade, &team.FieldGoalsAttempted,
		&team.ThreeMade, &team.ThreeAttempted,
		&team.FreeThrowsMade, &team.FreeThrowsAttempted,
		&team.OffensiveRebounds, &team.DefensiveRebounds, &team.TotalRebounds,
		&team.Assists, &team.Steals, &team.Blocks, &team.Turnovers, &team.PersonalFouls,
		&team.OppPoints, &team.OppFieldGoalsMade, &team.OppFieldGoalsAttempted,
		&team.OppThreeMade, &team.OppThreeAttempted,
		&team.OppFreeThrowsMade, &team.OppFreeThrowsAttempted,
		&team.OppOffensiveRebounds, &team.OppDefensiveRebounds, &team.OppTotalRebounds,
		&team.OppAssists, &team.OppSteals, &team.OppBlocks, &team.OppTurnovers, &team.OppPersonalFouls,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: team_id=%s", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM team_season_stats`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
