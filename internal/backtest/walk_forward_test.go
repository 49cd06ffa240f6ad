package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
)

func seasonOutcomes(season int, wins, losses int) []GameOutcome {
	out := bootstrapSample(wins, losses, 0)
	for i := range out {
		out[i].Season = season
	}
	return out
}

func TestRunWalkForward(t *testing.T) {
	var outcomes []GameOutcome
	outcomes = append(outcomes, seasonOutcomes(2022, 6, 4)...)
	outcomes = append(outcomes, seasonOutcomes(2021, 4, 6)...)
	outcomes = append(outcomes, seasonOutcomes(2023, 7, 3)...)
	outcomes = append(outcomes, outcome(99, ATSPush, models.ConfidenceLow, models.RecommendNoPlay))
	outcomes[len(outcomes)-1].Season = 2020

	result := RunWalkForward(outcomes, BreakEvenPercentage(-110))

	require.Len(t, result.Windows, 3, "a season with only pushes is dropped")
	assert.Equal(t, 2021, result.Windows[0].Season)
	assert.Equal(t, 2023, result.Windows[2].Season)
	assert.InDelta(t, 40.0, result.Windows[0].Metrics.ATS.Percentage, 1e-9)
	assert.InDelta(t, 2.0/3, result.ConsistencyScore, 1e-9)
	assert.Equal(t, 2023, result.BestSeason)
	assert.Equal(t, 2021, result.WorstSeason)
}

func TestCalculateConsistencyEmpty(t *testing.T) {
	assert.Zero(t, CalculateConsistency(nil))
}

func TestGenerateRecommendation(t *testing.T) {
	strong := Metrics{ATS: Record{Wins: 60, Losses: 40, Percentage: 60}, Profitable: true, PValue: 0.01}
	tests := []struct {
		name string
		m    Metrics
		mc   MonteCarloResult
		wf   WalkForwardResult
		want string
	}{
		{name: "no picks", m: Metrics{}, want: RecommendReject},
		{name: "below break-even", m: Metrics{ATS: Record{Wins: 5, Losses: 5, Percentage: 50}}, want: RecommendReject},
		{name: "bootstrap disagrees", m: strong, mc: MonteCarloResult{SampleSize: 100, ProbabilityAboveBreakEven: 0.3}, want: RecommendReject},
		{name: "significant and consistent", m: strong, mc: MonteCarloResult{SampleSize: 100, ProbabilityAboveBreakEven: 0.97}, wf: WalkForwardResult{ConsistencyScore: 0.75}, want: RecommendAccept},
		{name: "significant but streaky", m: strong, wf: WalkForwardResult{ConsistencyScore: 0.5}, want: RecommendReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateRecommendation(tt.m, tt.mc, tt.wf))
		})
	}
}

func TestAggregatedResultToModel(t *testing.T) {
	outcomes := seasonOutcomes(2023, 7, 3)
	m := CalculateMetrics(outcomes, 52.4)
	wf := RunWalkForward(outcomes, 52.4)
	result := AggregateResults(outcomes, m, MonteCarloResult{}, wf)

	record, err := result.ToModel()
	require.NoError(t, err)
	assert.Equal(t, []int{2023}, record.Seasons)
	assert.Equal(t, 7, record.ATSWins)
	assert.Equal(t, 3, record.ATSLosses)
	assert.InDelta(t, 70.0, record.ATSPercentage, 1e-9)
	assert.Equal(t, result.Recommendation, record.Recommendation)
	assert.Contains(t, string(record.FullResults), `"walk_forward"`)
	assert.NotContains(t, string(record.FullResults), `"outcomes"`)

	tiers := result.ATSByTier()
	assert.InDelta(t, 70.0, tiers["all"], 1e-9)
	assert.InDelta(t, 70.0, tiers["Low"], 1e-9)
}
