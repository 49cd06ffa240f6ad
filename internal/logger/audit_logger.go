// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for persisted state.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRatingsPersisted logs a write of final ratings and history.
func (al *AuditLogger) LogRatingsPersisted(teams, snapshots int, asOf time.Time) {
	al.WithFields(logrus.Fields{
		"teams_updated":     teams,
		"snapshots_written": snapshots,
		"as_of":             asOf.Unix(),
	}).Info("Ratings persisted")
}

// LogPredictionPersisted logs a stored prediction.
func (al *AuditLogger) LogPredictionPersisted(predictionID string, gameID int64, recommendation string, edge float64) {
	al.WithFields(logrus.Fields{
		"prediction_id":  predictionID,
		"game_id":        gameID,
		"recommendation": recommendation,
		"edge":           edge,
	}).Info("Prediction persisted")
}

// LogIngestionRun logs the outcome of a data source pull.
func (al *AuditLogger) LogIngestionRun(source string, season, week, fetched, stored, failed int) {
	al.WithFields(logrus.Fields{
		"source":  source,
		"season":  season,
		"week":    week,
		"fetched": fetched,
		"stored":  stored,
		"failed":  failed,
	}).Info("Ingestion run recorded")
}

// LogBacktestRun logs a stored backtest result.
func (al *AuditLogger) LogBacktestRun(resultID string, games int, atsPct float64, recommendation string) {
	al.WithFields(logrus.Fields{
		"result_id":       resultID,
		"games_evaluated": games,
		"ats_pct":         atsPct,
		"recommendation":  recommendation,
	}).Info("Backtest result persisted")
}

// LogParameterChange logs a change of a model constant.
func (al *AuditLogger) LogParameterChange(parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Model parameter changed")
}
