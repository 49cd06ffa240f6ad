package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestResult represents a persisted against-the-spread backtest run
type BacktestResult struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	RunDate        time.Time       `db:"run_date" json:"run_date"`
	Seasons        []int           `db:"seasons" json:"seasons"`
	GamesEvaluated int             `db:"games_evaluated" json:"games_evaluated"`
	ATSWins        int             `db:"ats_wins" json:"ats_wins"`
	ATSLosses      int             `db:"ats_losses" json:"ats_losses"`
	ATSPushes      int             `db:"ats_pushes" json:"ats_pushes"`
	ATSPercentage  float64         `db:"ats_percentage" json:"ats_percentage"`
	ModelMAE       float64         `db:"model_mae" json:"model_mae"`
	MarketMAE      float64         `db:"market_mae" json:"market_mae"`
	PValue         float64         `db:"p_value" json:"p_value"`
	Correlation    float64         `db:"correlation" json:"correlation"`
	Profitable     bool            `db:"profitable" json:"profitable"`
	Recommendation string          `db:"recommendation" json:"recommendation"`
	FullResults    json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
