package backtest

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
)

// EquityPoint represents cumulative units after one settled play
type EquityPoint struct {
	Time     time.Time `json:"time"`
	GameID   int64     `json:"game_id"`
	Units    float64   `json:"units"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve represents a time-series of equity points
type EquityCurve []EquityPoint

// BuildEquityCurve settles recommended plays in kickoff order at -110
func BuildEquityCurve(outcomes []GameOutcome) EquityCurve {
	plays := make([]GameOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.IsPlay() {
			plays = append(plays, o)
		}
	}
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].StartDate.Before(plays[j].StartDate)
	})

	curve := make(EquityCurve, 0, len(plays))
	units, peak := 0.0, 0.0
	for _, o := range plays {
		units += unitsFor(o.Result)
		if units > peak {
			peak = units
		}
		curve = append(curve, EquityPoint{
			Time:     o.StartDate,
			GameID:   o.GameID,
			Units:    units,
			Drawdown: peak - units,
		})
	}
	return curve
}

// Final returns the closing units, zero for an empty curve
func (e EquityCurve) Final() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Units
}

// MaxDrawdown returns the largest peak-to-trough drop in units
func (e EquityCurve) MaxDrawdown() float64 {
	max := 0.0
	for _, p := range e {
		if p.Drawdown > max {
			max = p.Drawdown
		}
	}
	return max
}

type equityRow struct {
	Time     string  `csv:"time"`
	GameID   int64   `csv:"game_id"`
	Units    float64 `csv:"units"`
	Drawdown float64 `csv:"drawdown"`
}

// ToCSV exports equity curve to CSV string
func (e EquityCurve) ToCSV() (string, error) {
	rows := make([]*equityRow, 0, len(e))
	for _, p := range e {
		rows = append(rows, &equityRow{
			Time:     p.Time.UTC().Format(time.RFC3339),
			GameID:   p.GameID,
			Units:    p.Units,
			Drawdown: p.Drawdown,
		})
	}
	return gocsv.MarshalString(&rows)
}

// ToJSON exports equity curve to JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}
