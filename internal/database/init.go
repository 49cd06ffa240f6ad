package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/config"
)

//go:embed migrations/0001_init.sql
var initSchema string

// requiredTables must exist before ratings or predictions can run
var requiredTables = []string{"teams", "games", "rating_snapshots", "predictions"}

// Initialize creates a database connection pool and verifies the schema
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	missing, err := db.missingTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(missing) > 0 {
		logger.WithField("tables", missing).Warn("Schema incomplete, run migrations with `picks migrate`")
	}

	// Verify migrations are applied by checking schema_migrations table
	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		return db, nil
	}

	if migrationCount == 0 {
		logger.Warn("No migrations have been applied. Please run database migrations.")
	}

	return db, nil
}

// Migrate applies the bundled schema. Statements are idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, initSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (db *DB) missingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range requiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
