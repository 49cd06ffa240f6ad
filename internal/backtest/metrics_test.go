package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
)

func outcome(id int64, result ATSResult, conf models.Confidence, rec models.Recommendation) GameOutcome {
	return GameOutcome{
		GameID:         id,
		Season:         2023,
		StartDate:      day(int(id)),
		Result:         result,
		Confidence:     conf,
		Recommendation: rec,
	}
}

func TestCalculateMetrics(t *testing.T) {
	outcomes := []GameOutcome{
		outcome(1, ATSWin, models.ConfidenceHigh, models.RecommendTakeHome),
		outcome(2, ATSWin, models.ConfidenceHigh, models.RecommendTakeAway),
		outcome(3, ATSLoss, models.ConfidenceMedium, models.RecommendTakeHome),
		outcome(4, ATSPush, models.ConfidenceLow, models.RecommendNoPlay),
		outcome(5, ATSWin, models.ConfidenceLow, models.RecommendNoPlay),
	}
	outcomes[0].WeatherScore = 4
	outcomes[2].ConferenceScore = -2.5
	outcomes[0].ModelError, outcomes[0].MarketError = 2, 4
	outcomes[1].ModelError, outcomes[1].MarketError = 4, 6

	m := CalculateMetrics(outcomes, BreakEvenPercentage(-110))

	assert.Equal(t, 5, m.GamesEvaluated)
	assert.Equal(t, Record{Wins: 3, Losses: 1, Pushes: 1, Percentage: 75}, m.ATS)
	assert.Equal(t, 2, m.ByConfidence["High"].Wins)
	assert.Equal(t, 1, m.ByConfidence["Medium"].Losses)
	assert.Equal(t, []string{"High", "Medium", "Low"}, m.ConfidenceTiers())
	assert.Equal(t, 1, m.WeatherGames.Wins)
	assert.Equal(t, 1, m.ConferenceGames.Losses)
	assert.Equal(t, 2, m.Plays.Wins)
	assert.Equal(t, 1, m.Plays.Losses)
	assert.InDelta(t, 66.67, m.Plays.Percentage, 0.01)
	assert.InDelta(t, 0.9, m.UnitsWon, 1e-9)
	assert.InDelta(t, 1.1, m.MaxDrawdownUnits, 1e-9)
	assert.InDelta(t, 1.2, m.ModelMAE, 1e-9)
	assert.InDelta(t, 2.0, m.MarketMAE, 1e-9)
	assert.InDelta(t, 40.0, m.VsMarketPct, 1e-9)
	assert.True(t, m.Profitable)
	assert.Equal(t, day(1), m.StartDate)
	assert.Equal(t, day(5), m.EndDate)
}

func TestCalculateMetricsEmpty(t *testing.T) {
	m := CalculateMetrics(nil, 52.4)
	assert.Zero(t, m.GamesEvaluated)
	assert.False(t, m.Profitable)
	assert.NotNil(t, m.ByConfidence)
}

func TestCalculateMetricsBelowBreakEven(t *testing.T) {
	outcomes := []GameOutcome{
		outcome(1, ATSWin, models.ConfidenceLow, models.RecommendNoPlay),
		outcome(2, ATSLoss, models.ConfidenceLow, models.RecommendNoPlay),
	}
	m := CalculateMetrics(outcomes, BreakEvenPercentage(-110))
	assert.Equal(t, 50.0, m.ATS.Percentage)
	assert.False(t, m.Profitable)
	assert.Zero(t, m.UnitsWon, "no recommended plays")
}

func TestCorrelationWithoutVariance(t *testing.T) {
	assert.Zero(t, correlation([]float64{1, 1, 1}, []float64{1, 2, 3}))
	assert.Zero(t, correlation([]float64{1}, []float64{1}))
	assert.InDelta(t, 1.0, correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
}

func TestBreakEvenPercentage(t *testing.T) {
	assert.InDelta(t, 52.38, BreakEvenPercentage(-110), 0.01)
	assert.InDelta(t, 50.0, BreakEvenPercentage(100), 1e-9)
	assert.InDelta(t, 40.0, BreakEvenPercentage(150), 1e-9)
	assert.Zero(t, ImpliedProbability(0))
}

func TestBinomialPValue(t *testing.T) {
	assert.InDelta(t, math.Pow(0.5, 10), BinomialPValue(10, 10, 0.5), 1e-12)
	assert.Equal(t, 1.0, BinomialPValue(0, 10, 0.5))
	assert.Equal(t, 1.0, BinomialPValue(3, 0, 0.5))
	assert.InDelta(t, 0.5, BinomialPValue(1, 1, 0.5), 1e-12)

	strong := BinomialPValue(60, 100, 0.524)
	weak := BinomialPValue(53, 100, 0.524)
	require.Less(t, strong, weak)
	assert.Less(t, strong, 0.1)
}

func TestEquityCurve(t *testing.T) {
	outcomes := []GameOutcome{
		outcome(3, ATSWin, models.ConfidenceHigh, models.RecommendTakeHome),
		outcome(1, ATSWin, models.ConfidenceHigh, models.RecommendTakeHome),
		outcome(2, ATSLoss, models.ConfidenceHigh, models.RecommendTakeAway),
		outcome(4, ATSPush, models.ConfidenceHigh, models.RecommendTakeAway),
		outcome(5, ATSWin, models.ConfidenceLow, models.RecommendNoPlay),
	}

	curve := BuildEquityCurve(outcomes)
	require.Len(t, curve, 4)
	assert.Equal(t, int64(1), curve[0].GameID)
	assert.InDelta(t, 1.0, curve[0].Units, 1e-9)
	assert.InDelta(t, -0.1, curve[1].Units, 1e-9)
	assert.InDelta(t, 1.1, curve[1].Drawdown, 1e-9)
	assert.InDelta(t, 0.9, curve.Final(), 1e-9)
	assert.InDelta(t, 1.1, curve.MaxDrawdown(), 1e-9)

	csv, err := curve.ToCSV()
	require.NoError(t, err)
	assert.Contains(t, csv, "time,game_id,units,drawdown")
	assert.Contains(t, csv, "2023-09-03T19:00:00Z,1,1,0")
}
