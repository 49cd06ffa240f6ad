package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	registry := InitRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, GetRegistry())
}

func TestRecordReplay(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(GamesProcessedTotal)
	beforeMissing := testutil.ToFloat64(GamesSkippedTotal.WithLabelValues("missing_team"))

	RecordReplay(10, map[string]int{"missing_team": 2, "duplicate_game": 1}, 0.02)

	assert.Equal(t, before+10, testutil.ToFloat64(GamesProcessedTotal))
	assert.Equal(t, beforeMissing+2, testutil.ToFloat64(GamesSkippedTotal.WithLabelValues("missing_team")))
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name           string
		confidence     string
		recommendation string
		edge           float64
	}{
		{"high home play", "High", "take_home", 9.3},
		{"low no play", "Low", "no_play", -0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(PredictionsTotal.WithLabelValues(tt.confidence))
			assert.NotPanics(t, func() {
				RecordPrediction(tt.confidence, tt.recommendation, tt.edge)
			})
			assert.Equal(t, before+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues(tt.confidence)))
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(PredictionCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(PredictionCacheTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(PredictionCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(PredictionCacheTotal.WithLabelValues("miss")))
}

func TestUpdateGauges(t *testing.T) {
	InitRegistry()

	UpdateRatingGauges(133, 1812.4)
	assert.Equal(t, 133.0, testutil.ToFloat64(RatedTeams))
	assert.Equal(t, 1812.4, testutil.ToFloat64(TopRating))

	UpdateBacktestResult(412, map[string]float64{"all": 54.1, "High": 58.0})
	assert.Equal(t, 412.0, testutil.ToFloat64(BacktestGamesEvaluated))
	assert.Equal(t, 58.0, testutil.ToFloat64(BacktestATSPercentage.WithLabelValues("High")))
}

func TestHandlerExposesNamespace(t *testing.T) {
	InitRegistry()
	RecordRebuild("success")
	RecordIngestionRequest("/games", "ok")
	RecordBacktestRun("success", 3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "ricks_picks_rating_rebuilds_total"))
	assert.True(t, strings.Contains(body, "ricks_picks_ingestion_requests_total"))
	assert.True(t, strings.Contains(body, "ricks_picks_backtest_runs_total"))
}
