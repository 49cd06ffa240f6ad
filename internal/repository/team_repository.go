package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

const (
	errScanTeam = "failed to scan team: %w"
	teamColumns = `id, name, conference, elo_rating, rank, created_at, updated_at`
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts a team or refreshes its name, conference and rank
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, conference, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, conference = EXCLUDED.conference, rank = EXCLUDED.rank, updated_at = NOW()
	`

	_, err := r.db.Conn(ctx).Exec(ctx, query, team.ID, team.Name, team.Conference, team.Rank)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByName retrieves a team by name
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *PostgresTeamRepository) getOne(ctx context.Context, query string, arg any) (*models.Team, error) {
	team, err := scanTeam(r.db.Conn(ctx).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetAll retrieves every team ordered by name
func (r *PostgresTeamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// UpdateRatings writes current ratings for many teams in one batch
func (r *PostgresTeamRepository) UpdateRatings(ctx context.Context, ratings map[int64]float64) error {
	if len(ratings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for id, rating := range ratings {
		batch.Queue(`UPDATE teams SET elo_rating = $2, updated_at = NOW() WHERE id = $1`, id, rating)
	}

	results := r.db.Conn(ctx).SendBatch(ctx, batch)
	defer results.Close()

	for range ratings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to update team rating: %w", err)
		}
	}
	return nil
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID, &team.Name, &team.Conference, &team.Rating, &team.Rank, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}
