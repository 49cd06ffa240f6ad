package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func f64(v float64) *float64 { return &v }

func TestRatingLoggerReplayCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	ratingLogger := NewRatingLogger(log)

	ratingLogger.LogReplayCompleted(812, 40, 3, 250*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "rating", logEntry["component"])
	assert.Equal(t, float64(812), logEntry["games_processed"])
	assert.Equal(t, float64(3), logEntry["games_skipped"])
	assert.Equal(t, float64(250), logEntry["duration_ms"])
}

func TestRatingLoggerRecordSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	ratingLogger := NewRatingLogger(log)

	ratingLogger.LogRecordSkipped(401520, "missing_team", errors.New("unknown team"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "missing_team", logEntry["reason"])
	assert.Equal(t, "unknown team", logEntry["error"])
}

func TestPredictionLoggerPlay(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPrediction(&models.Prediction{
		GameID:          77,
		HomeTeam:        "LSU",
		AwayTeam:        "Texas Tech",
		PredictedSpread: 9.4,
		MarketSpread:    f64(-7),
		Edge:            f64(2.4),
		Confidence:      models.ConfidenceHigh,
		Recommendation:  models.RecommendTakeHome,
		Factors: []models.FactorContribution{
			{Label: models.FactorHomeField, Value: 2},
			{Label: models.FactorMarketValue, Value: 0},
		},
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "take_home", logEntry["recommendation"])
	assert.Equal(t, 2.0, logEntry["factor_home_field"])
	assert.Equal(t, 0.0, logEntry["factor_market_value"])
	assert.Equal(t, -7.0, logEntry["market_spread"])
}

func TestPredictionLoggerNoPlayIsDebug(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPrediction(&models.Prediction{GameID: 1, Recommendation: models.RecommendNoPlay})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "debug", logEntry["level"])
	_, hasEdge := logEntry["edge"]
	assert.False(t, hasEdge)
}

func TestAuditLoggerRatingsPersisted(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	asOf := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	auditLogger.LogRatingsPersisted(133, 1800, asOf)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, float64(133), logEntry["teams_updated"])
	assert.Equal(t, float64(asOf.Unix()), logEntry["as_of"])
}

func TestAuditLoggerParameterChange(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogParameterChange("k_factor", 32, 24, "config")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "k_factor", logEntry["parameter_name"])
}

func TestNewLoggerForEnvironment(t *testing.T) {
	prod := NewLoggerForEnvironment("debug", "production")
	assert.Equal(t, logrus.DebugLevel, prod.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := NewLoggerForEnvironment("nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, dev.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
}

func BenchmarkPredictionLogger(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	predictionLogger := NewPredictionLogger(log)
	p := &models.Prediction{GameID: 1, Recommendation: models.RecommendTakeAway, Edge: f64(3)}

	for i := 0; i < b.N; i++ {
		predictionLogger.LogPrediction(p)
	}
}
