package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Confidence labels how strongly the model backs a prediction
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Recommendation is the betting action derived from a prediction
type Recommendation string

const (
	RecommendTakeHome Recommendation = "take_home"
	RecommendTakeAway Recommendation = "take_away"
	RecommendNoPlay   Recommendation = "no_play"
)

// Factor labels
const (
	FactorWeather     = "Weather"
	FactorConference  = "Conference"
	FactorHomeField   = "Home Field"
	FactorMarketValue = "Market Value"
	FactorRatingEdge  = "Rating Edge"
)

// FactorContribution is a single named adjustment in points, positive favoring home.
// Informational factors are reported but never summed into the predicted spread.
type FactorContribution struct {
	Label         string   `json:"label"`
	Value         float64  `json:"value"`
	Notes         []string `json:"notes,omitempty"`
	Informational bool     `json:"informational,omitempty"`
}

// Prediction is the scored output for one upcoming game
type Prediction struct {
	ID              uuid.UUID            `db:"id" json:"id"`
	GameID          int64                `db:"game_id" json:"game_id"`
	HomeTeam        string               `db:"home_team" json:"home_team"`
	AwayTeam        string               `db:"away_team" json:"away_team"`
	MarketSpread    *float64             `db:"market_spread" json:"market_spread"`
	MarketTotal     *float64             `db:"market_total" json:"market_total"`
	PredictedSpread float64              `db:"predicted_spread" json:"predicted_spread"`
	Edge            *float64             `db:"edge" json:"edge"`
	RatingSpread    *float64             `db:"rating_spread" json:"rating_spread"`
	Confidence      Confidence           `db:"confidence" json:"confidence"`
	Recommendation  Recommendation       `db:"recommendation" json:"recommendation"`
	RecommendedTeam string               `db:"recommended_team" json:"recommended_team"`
	Factors         []FactorContribution `db:"factors" json:"factors"`
	Rationale       []string             `db:"rationale" json:"rationale"`
	PredictedAt     time.Time            `db:"predicted_at" json:"predicted_at"`
}

// Factor returns the contribution with the given label
func (p *Prediction) Factor(label string) (FactorContribution, bool) {
	for _, f := range p.Factors {
		if f.Label == label {
			return f, true
		}
	}
	return FactorContribution{}, false
}

// FactorValue returns the value of a factor, zero if absent
func (p *Prediction) FactorValue(label string) float64 {
	f, _ := p.Factor(label)
	return f.Value
}

// IsPlay reports whether the prediction recommends a side
func (p *Prediction) IsPlay() bool {
	return p.Recommendation == RecommendTakeHome || p.Recommendation == RecommendTakeAway
}

// Summary renders a one-line description of the prediction
func (p *Prediction) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s: model %+.1f", p.AwayTeam, p.HomeTeam, p.PredictedSpread)
	if p.MarketSpread != nil {
		fmt.Fprintf(&b, ", market %+.1f", *p.MarketSpread)
	}
	fmt.Fprintf(&b, " [%s]", p.Confidence)
	if p.IsPlay() {
		fmt.Fprintf(&b, " -> %s", p.RecommendedTeam)
	} else {
		b.WriteString(" -> no play")
	}
	return b.String()
}
