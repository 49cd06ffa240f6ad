package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/ricks-picks/internal/models"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	GetAll(ctx context.Context) ([]*models.Team, error)
	UpdateRatings(ctx context.Context, ratings map[int64]float64) error
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	GetCompleted(ctx context.Context) ([]*models.Game, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error)
	GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.Game, error)
	GetWithLines(ctx context.Context, seasons []int, limit int) ([]*models.Game, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetLatestByGameID(ctx context.Context, gameID int64) (*models.Prediction, error)
	GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error)
}

// RatingSnapshotRepository defines rating history persistence
type RatingSnapshotRepository interface {
	ReplaceAll(ctx context.Context, snapshots []models.RatingSnapshot) error
	GetByTeamID(ctx context.Context, teamID int64) ([]models.RatingSnapshot, error)
}

// BacktestResultRepository defines backtest result persistence
type BacktestResultRepository interface {
	SaveResult(ctx context.Context, result *models.BacktestResult) error
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error)
}
