package backtest

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/ricks-picks/internal/models"
)

// juicePayout is the units won on a winning -110 bet risking 1.1 units
const (
	juiceRisk   = 1.1
	juicePayout = 1.0
)

// Record is a won-lost-push tally against the spread
type Record struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Pushes     int     `json:"pushes"`
	Percentage float64 `json:"percentage"`
}

func (r *Record) add(result ATSResult) {
	switch result {
	case ATSWin:
		r.Wins++
	case ATSLoss:
		r.Losses++
	case ATSPush:
		r.Pushes++
	}
	r.Percentage = winPercentage(r.Wins, r.Losses)
}

// Decided returns wins plus losses
func (r Record) Decided() int {
	return r.Wins + r.Losses
}

// Metrics represents backtest performance metrics
type Metrics struct {
	GamesEvaluated    int               `json:"games_evaluated"`
	ATS               Record            `json:"ats"`
	ModelMAE          float64           `json:"model_mae"`
	MarketMAE         float64           `json:"market_mae"`
	VsMarketPct       float64           `json:"vs_market_pct"`
	PValue            float64           `json:"p_value"`
	Correlation       float64           `json:"correlation"`
	MarketCorrelation float64           `json:"market_correlation"`
	EloGames          int               `json:"elo_games"`
	EloAccuracy       float64           `json:"elo_accuracy"`
	ByConfidence      map[string]Record `json:"by_confidence"`
	WeatherGames      Record            `json:"weather_games"`
	ConferenceGames   Record            `json:"conference_games"`
	Plays             Record            `json:"plays"`
	UnitsWon          float64           `json:"units_won"`
	MaxDrawdownUnits  float64           `json:"max_drawdown_units"`
	BreakEvenPct      float64           `json:"break_even_pct"`
	Profitable        bool              `json:"profitable"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
}

// CalculateMetrics summarizes outcomes against the break-even percentage
func CalculateMetrics(outcomes []GameOutcome, breakEvenPct float64) Metrics {
	m := Metrics{
		GamesEvaluated: len(outcomes),
		BreakEvenPct:   breakEvenPct,
		ByConfidence:   make(map[string]Record),
	}
	if len(outcomes) == 0 {
		return m
	}

	predicted := make([]float64, len(outcomes))
	implied := make([]float64, len(outcomes))
	actual := make([]float64, len(outcomes))
	modelErr := make([]float64, len(outcomes))
	marketErr := make([]float64, len(outcomes))
	eloCorrect := 0

	m.StartDate = outcomes[0].StartDate
	m.EndDate = outcomes[0].StartDate

	for i, o := range outcomes {
		predicted[i] = o.PredictedSpread
		implied[i] = -o.MarketSpread
		actual[i] = float64(o.ActualMargin)
		modelErr[i] = o.ModelError
		marketErr[i] = o.MarketError

		if o.StartDate.Before(m.StartDate) {
			m.StartDate = o.StartDate
		}
		if o.StartDate.After(m.EndDate) {
			m.EndDate = o.StartDate
		}

		m.ATS.add(o.Result)

		tier := m.ByConfidence[string(o.Confidence)]
		tier.add(o.Result)
		m.ByConfidence[string(o.Confidence)] = tier

		if math.Abs(o.WeatherScore) > 1 {
			m.WeatherGames.add(o.Result)
		}
		if math.Abs(o.ConferenceScore) > 1 {
			m.ConferenceGames.add(o.Result)
		}
		if o.IsPlay() {
			m.Plays.add(o.Result)
		}
		if o.HasRatings && o.ActualMargin != 0 {
			m.EloGames++
			if o.EloCorrect {
				eloCorrect++
			}
		}
	}

	m.ModelMAE = stat.Mean(modelErr, nil)
	m.MarketMAE = stat.Mean(marketErr, nil)
	if m.MarketMAE > 0 {
		m.VsMarketPct = (m.MarketMAE - m.ModelMAE) / m.MarketMAE * 100
	}
	m.Correlation = correlation(predicted, actual)
	m.MarketCorrelation = correlation(implied, actual)
	if m.EloGames > 0 {
		m.EloAccuracy = float64(eloCorrect) / float64(m.EloGames) * 100
	}

	m.PValue = BinomialPValue(m.ATS.Wins, m.ATS.Decided(), breakEvenPct/100)
	m.Profitable = m.ATS.Decided() > 0 && m.ATS.Percentage > breakEvenPct

	curve := BuildEquityCurve(outcomes)
	m.UnitsWon = curve.Final()
	m.MaxDrawdownUnits = curve.MaxDrawdown()

	return m
}

// ConfidenceTiers returns the tier labels present, strongest first
func (m Metrics) ConfidenceTiers() []string {
	order := map[string]int{
		string(models.ConfidenceHigh):   0,
		string(models.ConfidenceMedium): 1,
		string(models.ConfidenceLow):    2,
	}
	tiers := make([]string, 0, len(m.ByConfidence))
	for tier := range m.ByConfidence {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool {
		oi, iok := order[tiers[i]]
		oj, jok := order[tiers[j]]
		if iok && jok {
			return oi < oj
		}
		if iok != jok {
			return iok
		}
		return tiers[i] < tiers[j]
	})
	return tiers
}

// ToJSON serializes metrics
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func winPercentage(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses) * 100
}

// correlation is Pearson's r, zero when either series has no variance
func correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func unitsFor(result ATSResult) float64 {
	switch result {
	case ATSWin:
		return juicePayout
	case ATSLoss:
		return -juiceRisk
	default:
		return 0
	}
}
