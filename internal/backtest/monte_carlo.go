package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// MonteCarloConfig configures the bootstrap of ATS results
type MonteCarloConfig struct {
	Iterations   int
	Seed         int64
	BreakEvenPct float64
}

// MonteCarloResult describes the resampled distribution of ATS win percentage
type MonteCarloResult struct {
	Iterations                int                   `json:"iterations"`
	SampleSize                int                   `json:"sample_size"`
	MeanATS                   float64               `json:"mean_ats"`
	StdATS                    float64               `json:"std_ats"`
	ProbabilityAboveBreakEven float64               `json:"probability_above_break_even"`
	ConfidenceIntervals       map[string][2]float64 `json:"confidence_intervals"`
	Distribution              []float64             `json:"-"`
}

// RunMonteCarlo resamples decided picks with replacement to estimate how stable the ATS rate is
func RunMonteCarlo(ctx context.Context, outcomes []GameOutcome, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	decided := make([]bool, 0, len(outcomes))
	for _, o := range outcomes {
		switch o.Result {
		case ATSWin:
			decided = append(decided, true)
		case ATSLoss:
			decided = append(decided, false)
		}
	}

	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		SampleSize:          len(decided),
		ConfidenceIntervals: make(map[string][2]float64),
	}
	if len(decided) == 0 {
		return result, nil
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return MonteCarloResult{}, err
			}
		}
		wins := 0
		for j := 0; j < len(decided); j++ {
			if decided[rng.Intn(len(decided))] {
				wins++
			}
		}
		distribution[i] = float64(wins) / float64(len(decided)) * 100
	}

	sort.Float64s(distribution)
	result.Distribution = distribution
	result.MeanATS, result.StdATS = stat.MeanStdDev(distribution, nil)
	result.ProbabilityAboveBreakEven = probabilityAbove(distribution, cfg.BreakEvenPct)
	result.ConfidenceIntervals = CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99})
	return result, nil
}

// CalculateConfidenceIntervals computes percentile intervals of a sorted distribution
func CalculateConfidenceIntervals(sorted []float64, levels []float64) map[string][2]float64 {
	results := make(map[string][2]float64)
	if len(sorted) == 0 {
		return results
	}
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := stat.Quantile(p, stat.Empirical, sorted, nil)
		high := stat.Quantile(1.0-p, stat.Empirical, sorted, nil)
		results[formatPercent(level)] = [2]float64{low, high}
	}
	return results
}

// ToJSON exports the bootstrap summary
func (m MonteCarloResult) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
