package backtest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/ricks-picks/internal/models"
)

// Recommendation values
const (
	RecommendAccept = "ACCEPT"
	RecommendReject = "REJECT"
	RecommendReview = "NEEDS_REVIEW"
)

// significance is the p-value below which an ATS edge is taken as real
const significance = 0.05

// AggregatedResult represents combined backtest outcomes
type AggregatedResult struct {
	RunDate        time.Time         `json:"run_date"`
	Seasons        []int             `json:"seasons"`
	Metrics        Metrics           `json:"metrics"`
	MonteCarlo     MonteCarloResult  `json:"monte_carlo"`
	WalkForward    WalkForwardResult `json:"walk_forward"`
	Recommendation string            `json:"recommendation"`
	Outcomes       []GameOutcome     `json:"-"`
}

// AggregateResults combines the summary, the bootstrap and the season split
func AggregateResults(outcomes []GameOutcome, metrics Metrics, monteCarlo MonteCarloResult, walkForward WalkForwardResult) AggregatedResult {
	seasons := make([]int, 0, len(walkForward.Windows))
	for _, w := range walkForward.Windows {
		seasons = append(seasons, w.Season)
	}
	return AggregatedResult{
		RunDate:        time.Now().UTC(),
		Seasons:        seasons,
		Metrics:        metrics,
		MonteCarlo:     monteCarlo,
		WalkForward:    walkForward,
		Recommendation: GenerateRecommendation(metrics, monteCarlo, walkForward),
		Outcomes:       outcomes,
	}
}

// GenerateRecommendation decides whether the model's ATS edge is worth trusting
func GenerateRecommendation(m Metrics, mc MonteCarloResult, wf WalkForwardResult) string {
	if m.ATS.Decided() == 0 || !m.Profitable {
		return RecommendReject
	}
	if mc.SampleSize > 0 && mc.ProbabilityAboveBreakEven < 0.5 {
		return RecommendReject
	}
	if m.PValue < significance && wf.ConsistencyScore >= 0.6 {
		return RecommendAccept
	}
	return RecommendReview
}

// ToModel converts the result into its persisted form
func (a AggregatedResult) ToModel() (*models.BacktestResult, error) {
	full, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backtest result: %w", err)
	}
	return &models.BacktestResult{
		ID:             uuid.New(),
		RunDate:        a.RunDate,
		Seasons:        a.Seasons,
		GamesEvaluated: a.Metrics.GamesEvaluated,
		ATSWins:        a.Metrics.ATS.Wins,
		ATSLosses:      a.Metrics.ATS.Losses,
		ATSPushes:      a.Metrics.ATS.Pushes,
		ATSPercentage:  a.Metrics.ATS.Percentage,
		ModelMAE:       a.Metrics.ModelMAE,
		MarketMAE:      a.Metrics.MarketMAE,
		PValue:         a.Metrics.PValue,
		Correlation:    a.Metrics.Correlation,
		Profitable:     a.Metrics.Profitable,
		Recommendation: a.Recommendation,
		FullResults:    full,
	}, nil
}

// ATSByTier returns the overall and per-confidence ATS percentage keyed for metrics export
func (a AggregatedResult) ATSByTier() map[string]float64 {
	out := map[string]float64{"all": a.Metrics.ATS.Percentage}
	for tier, r := range a.Metrics.ByConfidence {
		out[tier] = r.Percentage
	}
	return out
}
