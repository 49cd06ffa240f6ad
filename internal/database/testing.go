package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/ricks-picks/internal/config"
)

// TestConfigEnv names the variable pointing at an integration test config
const TestConfigEnv = "RICKS_PICKS_TEST_CONFIG"

// SetupTestDB connects to the integration database and applies the schema.
// The test is skipped when no test config is provided.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("%s not set, skipping database integration test", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

// TruncateAll clears every table between integration tests
func TruncateAll(t *testing.T, db *DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.pool.Exec(ctx, "TRUNCATE predictions, rating_snapshots, games, teams, backtest_results")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
