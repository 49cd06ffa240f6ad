// Package main provides the picks CLI: ratings, predictions, backtests, ingestion and the long-running server.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/config"
	"github.com/yourusername/ricks-picks/internal/database"
	applog "github.com/yourusername/ricks-picks/internal/logger"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/repository"
	"github.com/yourusername/ricks-picks/internal/scoring"
	"github.com/yourusername/ricks-picks/internal/service"
	"github.com/yourusername/ricks-picks/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:           "picks",
	Short:         "College football ELO ratings and against-the-spread picks",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "picks %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(versionCmd, migrateCmd, ingestCmd, ratingsCmd, predictCmd, backtestCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if logger != nil {
			logger.WithError(err).Error("Command failed")
			os.Exit(1)
		}
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.ApplySecrets(ctx, loaded); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	logger = applog.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	if err := tracing.Initialize(tracing.FromConfig(&cfg.Tracing, cfg.App.Name, Version), logger); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return nil
}

// connect opens the database and repositories on first use
func connect(ctx context.Context) error {
	if db != nil {
		return nil
	}
	conn, err := database.Initialize(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	r, err := repository.NewRepositories(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	db, repos = conn, r
	return nil
}

func newRatingService() *service.RatingService {
	return service.NewRatingService(repos, db, rating.FromConfig(&cfg.Rating), logger)
}

func newModel() (*scoring.Model, error) {
	return scoring.NewModel(scoring.FromConfig(&cfg.Scoring, &cfg.Rating))
}

// openOutput returns stdout for an empty path or "-"
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
