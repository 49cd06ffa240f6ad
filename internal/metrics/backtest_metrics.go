// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
)

// Backtest gauges
var (
	BacktestATSPercentage = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_ats_percentage",
		Help:      "Against-the-spread win percentage of the latest backtest by confidence tier",
	}, []string{"confidence"})
	BacktestGamesEvaluated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_games_evaluated",
		Help:      "Games evaluated by the latest backtest",
	})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// UpdateBacktestResult publishes the headline numbers of a finished backtest.
// Use "all" as the tier for the overall percentage.
func UpdateBacktestResult(gamesEvaluated int, atsByTier map[string]float64) {
	BacktestGamesEvaluated.Set(float64(gamesEvaluated))
	for tier, pct := range atsByTier {
		BacktestATSPercentage.WithLabelValues(tier).Set(pct)
	}
}
