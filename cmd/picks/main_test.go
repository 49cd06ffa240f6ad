package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/config"
	"github.com/yourusername/ricks-picks/internal/models"
)

func TestSeasonTypes(t *testing.T) {
	cfg = &config.Config{DataSource: config.DataSourceConfig{SeasonType: "both"}}
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, []string{"regular", "postseason"}, seasonTypes(""))
	assert.Equal(t, []string{"postseason"}, seasonTypes("postseason"))
	assert.Equal(t, []string{"regular"}, seasonTypes("regular"))
	assert.Equal(t, []string{"regular"}, seasonTypes("nonsense"))
}

func TestBuildBacktestConfig(t *testing.T) {
	cfg = &config.Config{Backtest: config.BacktestConfig{
		StartDate:    "2021-08-01",
		EndDate:      "2023-12-31",
		BreakEvenPct: 52.4,
		Bootstrap:    1000,
	}}
	t.Cleanup(func() { cfg = nil })

	require.NoError(t, backtestCmd.Flags().Set("seasons", "2022,2023"))
	require.NoError(t, backtestCmd.Flags().Set("min-confidence", "High"))
	require.NoError(t, backtestCmd.Flags().Set("iterations", "0"))
	require.NoError(t, backtestCmd.Flags().Set("end-date", "2023-11-30"))

	bt, err := buildBacktestConfig(backtestCmd)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, bt.Seasons)
	assert.Equal(t, models.ConfidenceHigh, bt.MinConfidence)
	assert.Zero(t, bt.BootstrapIterations)
	assert.Zero(t, bt.SampleSize, "unchanged flag keeps the configured value")
	assert.Equal(t, time.Date(2023, 11, 30, 23, 59, 59, 999999999, time.UTC), bt.EndDate)

	require.NoError(t, backtestCmd.Flags().Set("min-confidence", "Extreme"))
	_, err = buildBacktestConfig(backtestCmd)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "picks dev")
}
