// Package logger provides prediction-specific logging.
package logger

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/models"
)

// PredictionLogger provides dedicated logging for scored games.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPrediction logs the decision for one game.
func (pl *PredictionLogger) LogPrediction(p *models.Prediction) {
	fields := logrus.Fields{
		"game_id":          p.GameID,
		"home_team":        p.HomeTeam,
		"away_team":        p.AwayTeam,
		"predicted_spread": p.PredictedSpread,
		"confidence":       string(p.Confidence),
		"recommendation":   string(p.Recommendation),
	}
	if p.MarketSpread != nil {
		fields["market_spread"] = *p.MarketSpread
	}
	if p.Edge != nil {
		fields["edge"] = *p.Edge
	}
	for _, f := range p.Factors {
		fields["factor_"+factorKey(f.Label)] = f.Value
	}

	entry := pl.WithFields(fields)
	if p.IsPlay() {
		entry.Info("Play recommended")
		return
	}
	entry.Debug("Game scored")
}

// LogBatch logs totals for a prediction run.
func (pl *PredictionLogger) LogBatch(scored, plays, cached int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"games_scored": scored,
		"plays":        plays,
		"cache_hits":   cached,
		"duration_ms":  durationMs,
	}).Info("Prediction run completed")
}

func factorKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}
