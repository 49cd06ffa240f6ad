// Package logger provides rating-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RatingLogger provides dedicated logging for rating replays.
type RatingLogger struct {
	*logrus.Entry
}

// NewRatingLogger creates a new rating logger.
func NewRatingLogger(baseLogger *logrus.Logger) *RatingLogger {
	return &RatingLogger{
		Entry: baseLogger.WithField("component", "rating"),
	}
}

// LogReplayStarted logs the start of a replay.
func (rl *RatingLogger) LogReplayStarted(teams, games int) {
	rl.WithFields(logrus.Fields{
		"teams": teams,
		"games": games,
	}).Info("Rating replay started")
}

// LogReplayCompleted logs replay totals.
func (rl *RatingLogger) LogReplayCompleted(processed, ignored, skipped int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"games_processed": processed,
		"games_ignored":   ignored,
		"games_skipped":   skipped,
		"duration_ms":     duration.Milliseconds(),
	}).Info("Rating replay completed")
}

// LogRecordSkipped logs a game passed over during replay.
func (rl *RatingLogger) LogRecordSkipped(gameID int64, reason string, err error) {
	rl.WithFields(logrus.Fields{
		"game_id": gameID,
		"reason":  reason,
	}).WithError(err).Warn("Game skipped during rating replay")
}

// LogOrderingViolation logs a fatal out-of-order game.
func (rl *RatingLogger) LogOrderingViolation(gameID int64, err error) {
	rl.WithField("game_id", gameID).WithError(err).Error("Rating replay aborted on out-of-order game")
}

// LogTopTeams logs the head of the standings.
func (rl *RatingLogger) LogTopTeams(names []string, ratings []float64) {
	fields := logrus.Fields{}
	for i := range names {
		if i >= len(ratings) {
			break
		}
		fields[names[i]] = ratings[i]
	}
	rl.WithFields(fields).Debug("Top rated teams")
}
