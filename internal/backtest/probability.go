package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BreakEvenPercentage converts American odds into the win rate needed to break even
func BreakEvenPercentage(american int) float64 {
	return ImpliedProbability(american) * 100
}

// ImpliedProbability converts American odds into an implied win probability
func ImpliedProbability(american int) float64 {
	switch {
	case american < 0:
		risk := float64(-american)
		return risk / (risk + 100)
	case american > 0:
		return 100 / (float64(american) + 100)
	default:
		return 0
	}
}

// BinomialPValue is the one-sided probability of at least wins successes in trials
// when each trial succeeds with probability p.
func BinomialPValue(wins, trials int, p float64) float64 {
	if trials <= 0 || wins <= 0 {
		return 1
	}
	if wins > trials {
		return 0
	}
	dist := distuv.Binomial{N: float64(trials), P: p}
	pv := 1 - dist.CDF(float64(wins-1))
	return math.Max(0, math.Min(1, pv))
}
