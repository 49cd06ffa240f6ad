package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

const (
	errScanPrediction = "failed to scan prediction: %w"

	predictionColumns = `
		id, game_id, home_team, away_team, market_spread, market_total, predicted_spread,
		edge, rating_spread, confidence, recommendation, recommended_team, factors, rationale, predicted_at`
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert stores a prediction. Factors and rationale are kept as JSONB.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, p *models.Prediction) error {
	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("failed to encode factors: %w", err)
	}
	rationale, err := json.Marshal(p.Rationale)
	if err != nil {
		return fmt.Errorf("failed to encode rationale: %w", err)
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err = r.db.Conn(ctx).Exec(ctx, query,
		p.ID, p.GameID, p.HomeTeam, p.AwayTeam, p.MarketSpread, p.MarketTotal, p.PredictedSpread,
		p.Edge, p.RatingSpread, p.Confidence, p.Recommendation, p.RecommendedTeam, factors, rationale, p.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetLatestByGameID retrieves the newest prediction for a game
func (r *PostgresPredictionRepository) GetLatestByGameID(ctx context.Context, gameID int64) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions WHERE game_id = $1
		ORDER BY predicted_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, gameID)
}

// GetSince retrieves predictions made after the given time
func (r *PostgresPredictionRepository) GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
		FROM predictions WHERE predicted_at >= $1
		ORDER BY predicted_at ASC
	`
	rows, err := r.db.Conn(ctx).Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *PostgresPredictionRepository) getOne(ctx context.Context, query string, arg any) (*models.Prediction, error) {
	p, err := scanPrediction(r.db.Conn(ctx).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	p := &models.Prediction{}
	var factors, rationale []byte
	err := row.Scan(
		&p.ID, &p.GameID, &p.HomeTeam, &p.AwayTeam, &p.MarketSpread, &p.MarketTotal, &p.PredictedSpread,
		&p.Edge, &p.RatingSpread, &p.Confidence, &p.Recommendation, &p.RecommendedTeam, &factors, &rationale, &p.PredictedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(factors, &p.Factors); err != nil {
		return nil, fmt.Errorf("failed to decode factors: %w", err)
	}
	if err := json.Unmarshal(rationale, &p.Rationale); err != nil {
		return nil, fmt.Errorf("failed to decode rationale: %w", err)
	}
	return p, nil
}
