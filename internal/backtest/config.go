package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/ricks-picks/internal/config"
	"github.com/yourusername/ricks-picks/internal/models"
)

// BacktestConfig extends core config with backtest-specific settings
type BacktestConfig struct {
	StartDate           time.Time
	EndDate             time.Time
	Seasons             []int
	SampleSize          int // most recent games evaluated, zero for all
	BreakEvenPct        float64
	MinConfidence       models.Confidence
	OutputPath          string
	BootstrapIterations int
	Seed                int64
}

// DefaultBacktestConfig evaluates every season at standard -110 juice
func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{
		BreakEvenPct:        BreakEvenPercentage(-110),
		BootstrapIterations: 1000,
	}
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.BacktestConfig) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("backtest config is required")
	}
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return BacktestConfig{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return BacktestConfig{}, fmt.Errorf("invalid end date: %w", err)
	}

	bt := BacktestConfig{
		StartDate:           start,
		EndDate:             end.Add(24*time.Hour - time.Nanosecond),
		Seasons:             append([]int(nil), cfg.Seasons...),
		SampleSize:          cfg.SampleSize,
		BreakEvenPct:        cfg.BreakEvenPct,
		MinConfidence:       models.Confidence(cfg.MinConfidence),
		OutputPath:          cfg.OutputPath,
		BootstrapIterations: cfg.Bootstrap,
		Seed:                cfg.Seed,
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.StartDate.After(b.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	if b.BreakEvenPct <= 0 || b.BreakEvenPct >= 100 {
		return fmt.Errorf("break-even percentage must be between 0 and 100")
	}
	if b.SampleSize < 0 {
		return fmt.Errorf("sample size cannot be negative")
	}
	if b.BootstrapIterations < 0 {
		return fmt.Errorf("bootstrap iterations cannot be negative")
	}
	switch b.MinConfidence {
	case "", models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
	default:
		return fmt.Errorf("unknown minimum confidence %q", b.MinConfidence)
	}
	return nil
}

// includes reports whether a game falls inside the configured window
func (b BacktestConfig) includes(game models.Game) bool {
	if !b.StartDate.IsZero() && game.StartDate.Before(b.StartDate) {
		return false
	}
	if !b.EndDate.IsZero() && game.StartDate.After(b.EndDate) {
		return false
	}
	if len(b.Seasons) == 0 {
		return true
	}
	for _, s := range b.Seasons {
		if s == game.Season {
			return true
		}
	}
	return false
}
