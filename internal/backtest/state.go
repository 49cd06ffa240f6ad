package backtest

import (
	"time"

	"github.com/yourusername/ricks-picks/internal/models"
)

// Side is the team picked against the spread
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// ATSResult is the settled result of a pick against the spread
type ATSResult string

const (
	ATSWin  ATSResult = "win"
	ATSLoss ATSResult = "loss"
	ATSPush ATSResult = "push"
)

// GameOutcome is one historical game scored by the model and settled against the final score
type GameOutcome struct {
	GameID          int64                 `json:"game_id"`
	Season          int                   `json:"season"`
	Week            int                   `json:"week"`
	StartDate       time.Time             `json:"start_date"`
	HomeTeam        string                `json:"home_team"`
	AwayTeam        string                `json:"away_team"`
	MarketSpread    float64               `json:"market_spread"`
	PredictedSpread float64               `json:"predicted_spread"`
	ActualMargin    int                   `json:"actual_margin"`
	ModelError      float64               `json:"model_error"`
	MarketError     float64               `json:"market_error"`
	Pick            Side                  `json:"pick"`
	Result          ATSResult             `json:"result"`
	Confidence      models.Confidence     `json:"confidence"`
	Recommendation  models.Recommendation `json:"recommendation"`
	WeatherScore    float64               `json:"weather_score"`
	ConferenceScore float64               `json:"conference_score"`
	HasRatings      bool                  `json:"has_ratings"`
	RatingSpread    float64               `json:"rating_spread"`
	EloCorrect      bool                  `json:"elo_correct"`
}

// IsPlay reports whether the model would have recommended a bet
func (o GameOutcome) IsPlay() bool {
	return o.Recommendation != "" && o.Recommendation != models.RecommendNoPlay
}

// Evaluate settles a prediction against a completed game.
// The pick is home when the model spread exceeds the market's implied spread.
// The home side covers when margin plus spread is positive and pushes at zero.
func Evaluate(game models.Game, p models.Prediction) (GameOutcome, bool) {
	margin, ok := game.Margin()
	if !ok || game.Spread == nil {
		return GameOutcome{}, false
	}
	spread := *game.Spread
	implied := -spread

	o := GameOutcome{
		GameID:          game.ID,
		Season:          game.Season,
		Week:            game.Week,
		StartDate:       game.StartDate,
		HomeTeam:        game.HomeTeam,
		AwayTeam:        game.AwayTeam,
		MarketSpread:    spread,
		PredictedSpread: p.PredictedSpread,
		ActualMargin:    margin,
		ModelError:      abs(p.PredictedSpread - float64(margin)),
		MarketError:     abs(implied - float64(margin)),
		Confidence:      p.Confidence,
		Recommendation:  p.Recommendation,
		WeatherScore:    p.FactorValue(models.FactorWeather),
		ConferenceScore: p.FactorValue(models.FactorConference),
		Pick:            SideAway,
	}
	if p.PredictedSpread > implied {
		o.Pick = SideHome
	}

	cover := float64(margin) + spread
	switch {
	case cover == 0:
		o.Result = ATSPush
	case (cover > 0) == (o.Pick == SideHome):
		o.Result = ATSWin
	default:
		o.Result = ATSLoss
	}

	if p.RatingSpread != nil {
		o.HasRatings = true
		o.RatingSpread = *p.RatingSpread
		o.EloCorrect = (o.RatingSpread > 0) == (margin > 0)
	}
	return o, true
}

// BacktestState accumulates outcomes as the replay walks forward
type BacktestState struct {
	Outcomes []GameOutcome
	Skipped  int
}

// NewBacktestState initializes backtest state
func NewBacktestState() *BacktestState {
	return &BacktestState{}
}

// Record appends a settled outcome
func (s *BacktestState) Record(o GameOutcome) {
	s.Outcomes = append(s.Outcomes, o)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
