package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/backtest"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/tracing"
)

var backtestOpts struct {
	start         string
	end           string
	seasons       []int
	sample        int
	minConfidence string
	output        string
	iterations    int
	seed          int64
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Walk completed games forward and grade the model against the spread",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		btConfig, err := buildBacktestConfig(cmd)
		if err != nil {
			return err
		}
		if err := connect(ctx); err != nil {
			return err
		}
		model, err := newModel()
		if err != nil {
			return err
		}

		engine, err := backtest.NewEngine(btConfig, repos, rating.FromConfig(&cfg.Rating), model, logger)
		if err != nil {
			return err
		}
		var result *backtest.AggregatedResult
		err = tracing.Trace(ctx, "backtest", func(ctx context.Context) error {
			var rerr error
			result, rerr = engine.Run(ctx)
			return rerr
		})
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), backtest.GenerateConsoleReport(*result))
		if err := backtest.WriteReports(*result, btConfig.OutputPath); err != nil {
			return fmt.Errorf("failed to write reports: %w", err)
		}
		return nil
	},
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestOpts.start, "start-date", "", "Override start date (YYYY-MM-DD)")
	f.StringVar(&backtestOpts.end, "end-date", "", "Override end date (YYYY-MM-DD)")
	f.IntSliceVar(&backtestOpts.seasons, "seasons", nil, "Restrict to seasons")
	f.IntVar(&backtestOpts.sample, "sample", -1, "Evaluate only the most recent N games")
	f.StringVar(&backtestOpts.minConfidence, "min-confidence", "", "Low, Medium or High")
	f.StringVarP(&backtestOpts.output, "output", "o", "", "Report directory")
	f.IntVar(&backtestOpts.iterations, "iterations", -1, "Bootstrap iterations, 0 to disable")
	f.Int64Var(&backtestOpts.seed, "seed", 0, "Bootstrap seed")
}

func buildBacktestConfig(cmd *cobra.Command) (backtest.BacktestConfig, error) {
	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return btConfig, err
	}
	flags := cmd.Flags()
	if backtestOpts.start != "" {
		parsed, err := time.Parse("2006-01-02", backtestOpts.start)
		if err != nil {
			return btConfig, fmt.Errorf("invalid start date: %w", err)
		}
		btConfig.StartDate = parsed
	}
	if backtestOpts.end != "" {
		parsed, err := time.Parse("2006-01-02", backtestOpts.end)
		if err != nil {
			return btConfig, fmt.Errorf("invalid end date: %w", err)
		}
		btConfig.EndDate = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if flags.Changed("seasons") {
		btConfig.Seasons = backtestOpts.seasons
	}
	if flags.Changed("sample") {
		btConfig.SampleSize = backtestOpts.sample
	}
	if backtestOpts.minConfidence != "" {
		btConfig.MinConfidence = models.Confidence(backtestOpts.minConfidence)
	}
	if backtestOpts.output != "" {
		btConfig.OutputPath = backtestOpts.output
	}
	if flags.Changed("iterations") {
		btConfig.BootstrapIterations = backtestOpts.iterations
	}
	if flags.Changed("seed") {
		btConfig.Seed = backtestOpts.seed
	}
	return btConfig, btConfig.Validate()
}
