package backtest

import (
	"encoding/json"
	"sort"
)

// WalkForwardWindow is one season evaluated with ratings carried forward from earlier games only
type WalkForwardWindow struct {
	Season  int     `json:"season"`
	Metrics Metrics `json:"metrics"`
}

// WalkForwardResult summarizes how the edge holds up season by season
type WalkForwardResult struct {
	Windows          []WalkForwardWindow `json:"windows"`
	ConsistencyScore float64             `json:"consistency_score"`
	BestSeason       int                 `json:"best_season"`
	WorstSeason      int                 `json:"worst_season"`
}

// RunWalkForward splits outcomes into seasons. Seasons without a decided pick are dropped.
func RunWalkForward(outcomes []GameOutcome, breakEvenPct float64) WalkForwardResult {
	bySeason := make(map[int][]GameOutcome)
	for _, o := range outcomes {
		bySeason[o.Season] = append(bySeason[o.Season], o)
	}

	seasons := make([]int, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)

	result := WalkForwardResult{}
	for _, season := range seasons {
		m := CalculateMetrics(bySeason[season], breakEvenPct)
		if m.ATS.Decided() == 0 {
			continue
		}
		result.Windows = append(result.Windows, WalkForwardWindow{Season: season, Metrics: m})
	}

	result.ConsistencyScore = CalculateConsistency(result.Windows)
	for i, w := range result.Windows {
		if i == 0 || w.Metrics.ATS.Percentage > bestPct(result) {
			result.BestSeason = w.Season
		}
		if i == 0 || w.Metrics.ATS.Percentage < worstPct(result) {
			result.WorstSeason = w.Season
		}
	}
	return result
}

// CalculateConsistency calculates the share of seasons beating break-even
func CalculateConsistency(windows []WalkForwardWindow) float64 {
	if len(windows) == 0 {
		return 0
	}
	profitable := 0
	for _, w := range windows {
		if w.Metrics.Profitable {
			profitable++
		}
	}
	return float64(profitable) / float64(len(windows))
}

func bestPct(r WalkForwardResult) float64 {
	return seasonPct(r, r.BestSeason)
}

func worstPct(r WalkForwardResult) float64 {
	return seasonPct(r, r.WorstSeason)
}

func seasonPct(r WalkForwardResult, season int) float64 {
	for _, w := range r.Windows {
		if w.Season == season {
			return w.Metrics.ATS.Percentage
		}
	}
	return 0
}

// ToJSON exports the per-season breakdown
func (w WalkForwardResult) ToJSON() string {
	data, _ := json.Marshal(w)
	return string(data)
}
