package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

const errScanBacktestResult = "failed to scan backtest result: %w"

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// SaveResult inserts a backtest result
func (r *PostgresBacktestResultRepository) SaveResult(ctx context.Context, result *models.BacktestResult) error {
	query := `
		INSERT INTO backtest_results (
			id, run_date, seasons, games_evaluated, ats_wins, ats_losses, ats_pushes,
			ats_percentage, model_mae, market_mae, p_value, correlation, profitable,
			recommendation, full_results
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`

	_, err := r.db.Conn(ctx).Exec(ctx, query,
		result.ID, result.RunDate, result.Seasons, result.GamesEvaluated, result.ATSWins, result.ATSLosses, result.ATSPushes,
		result.ATSPercentage, result.ModelMAE, result.MarketMAE, result.PValue, result.Correlation, result.Profitable,
		result.Recommendation, result.FullResults,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// GetLatest retrieves latest backtest results
func (r *PostgresBacktestResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	query := `
		SELECT id, run_date, seasons, games_evaluated, ats_wins, ats_losses, ats_pushes,
			ats_percentage, model_mae, market_mae, p_value, correlation, profitable,
			recommendation, full_results, created_at
		FROM backtest_results ORDER BY run_date DESC LIMIT $1
	`
	rows, err := r.db.Conn(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	var results []*models.BacktestResult
	for rows.Next() {
		result := &models.BacktestResult{}
		if err := rows.Scan(
			&result.ID, &result.RunDate, &result.Seasons, &result.GamesEvaluated, &result.ATSWins, &result.ATSLosses, &result.ATSPushes,
			&result.ATSPercentage, &result.ModelMAE, &result.MarketMAE, &result.PValue, &result.Correlation, &result.Profitable,
			&result.Recommendation, &result.FullResults, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBacktestResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
