package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

// PostgresRatingSnapshotRepository implements RatingSnapshotRepository for PostgreSQL
type PostgresRatingSnapshotRepository struct {
	db *database.DB
}

// NewPostgresRatingSnapshotRepository creates a new rating snapshot repository
func NewPostgresRatingSnapshotRepository(db *database.DB) RatingSnapshotRepository {
	return &PostgresRatingSnapshotRepository{db: db}
}

// ReplaceAll swaps the stored history for a freshly replayed one in a single transaction
func (r *PostgresRatingSnapshotRepository) ReplaceAll(ctx context.Context, snapshots []models.RatingSnapshot) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := r.db.Conn(txCtx)
		if _, err := conn.Exec(txCtx, `DELETE FROM rating_snapshots`); err != nil {
			return fmt.Errorf("failed to clear rating snapshots: %w", err)
		}
		if len(snapshots) == 0 {
			return nil
		}

		tx, ok := conn.(pgx.Tx)
		if !ok {
			return fmt.Errorf("rating snapshot copy requires a transaction")
		}

		columns := []string{"team_id", "game_id", "sequence", "rating", "delta", "as_of"}
		rows := make([][]interface{}, 0, len(snapshots))
		for _, s := range snapshots {
			var asOf interface{}
			if !s.AsOf.IsZero() {
				asOf = s.AsOf
			}
			rows = append(rows, []interface{}{s.TeamID, s.GameID, s.Sequence, s.Rating, s.Delta, asOf})
		}

		count, err := tx.CopyFrom(txCtx, pgx.Identifier{"rating_snapshots"}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy rating snapshots: %w", err)
		}
		if int(count) != len(snapshots) {
			return fmt.Errorf("copied %d of %d rating snapshots", count, len(snapshots))
		}
		return nil
	})
}

// GetByTeamID retrieves a team's history in order
func (r *PostgresRatingSnapshotRepository) GetByTeamID(ctx context.Context, teamID int64) ([]models.RatingSnapshot, error) {
	query := `
		SELECT team_id, game_id, sequence, rating, delta, as_of, created_at
		FROM rating_snapshots
		WHERE team_id = $1
		ORDER BY sequence ASC
	`
	rows, err := r.db.Conn(ctx).Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.RatingSnapshot
	for rows.Next() {
		var s models.RatingSnapshot
		var asOf *time.Time
		if err := rows.Scan(&s.TeamID, &s.GameID, &s.Sequence, &s.Rating, &s.Delta, &asOf, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating snapshot: %w", err)
		}
		if asOf != nil {
			s.AsOf = *asOf
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
