// Package metrics provides centralized Prometheus metrics registry for the ratings pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ricks_picks"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_processed_total",
		Help:      "Total number of completed games applied to the ratings",
	})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped during replay by reason",
	}, []string{"reason"})
	RatingRebuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_rebuilds_total",
		Help:      "Total number of rating rebuilds by status",
	}, []string{"status"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of predictions by confidence tier",
	}, []string{"confidence"})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of recommendations by side",
	}, []string{"recommendation"})
	PredictionCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_cache_total",
		Help:      "Prediction cache lookups by result",
	}, []string{"result"})
	IngestionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_requests_total",
		Help:      "Total number of data source requests by endpoint and status",
	}, []string{"endpoint", "status"})
	IngestedGamesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_games_total",
		Help:      "Total number of ingested games by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rated_teams",
		Help:      "Number of teams carrying a rating",
	})
	TopRating = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "top_rating",
		Help:      "Highest current team rating",
	})
)

// Histogram metrics
var (
	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "replay_duration_seconds",
		Help:      "Duration of a full rating replay in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	PredictionBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_batch_duration_seconds",
		Help:      "Duration of a prediction batch in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PredictionEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_edge_points",
		Help:      "Absolute edge between model and market in points",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 7, 10, 14, 21},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GamesProcessedTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(RatingRebuildsTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(PredictionCacheTotal)
		registry.MustRegister(IngestionRequestsTotal)
		registry.MustRegister(IngestedGamesTotal)

		registry.MustRegister(RatedTeams)
		registry.MustRegister(TopRating)

		registry.MustRegister(ReplayDuration)
		registry.MustRegister(PredictionBatchDuration)
		registry.MustRegister(PredictionEdge)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestATSPercentage)
		registry.MustRegister(BacktestGamesEvaluated)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordReplay records the outcome of a rating replay.
// skipped maps a skip reason label to its count.
func RecordReplay(processed int, skipped map[string]int, durationSeconds float64) {
	GamesProcessedTotal.Add(float64(processed))
	for reason, n := range skipped {
		GamesSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
	ReplayDuration.Observe(durationSeconds)
}

// RecordRebuild records a rating rebuild with status "success" or "failure".
func RecordRebuild(status string) {
	RatingRebuildsTotal.WithLabelValues(status).Inc()
}

// UpdateRatingGauges updates the rated team count and the top rating.
func UpdateRatingGauges(ratedTeams int, top float64) {
	RatedTeams.Set(float64(ratedTeams))
	TopRating.Set(top)
}

// RecordPrediction records a scored game.
func RecordPrediction(confidence, recommendation string, edge float64) {
	PredictionsTotal.WithLabelValues(confidence).Inc()
	RecommendationsTotal.WithLabelValues(recommendation).Inc()
	if edge < 0 {
		edge = -edge
	}
	PredictionEdge.Observe(edge)
}

// RecordPredictionBatch records the duration of a prediction batch.
func RecordPredictionBatch(durationSeconds float64) {
	PredictionBatchDuration.Observe(durationSeconds)
}

// RecordCacheLookup records a prediction cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	PredictionCacheTotal.WithLabelValues(result).Inc()
}

// RecordIngestionRequest records a data source request.
func RecordIngestionRequest(endpoint, status string) {
	IngestionRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordIngestedGames records ingested games with outcome "stored", "invalid" or "failed".
func RecordIngestedGames(outcome string, n int) {
	IngestedGamesTotal.WithLabelValues(outcome).Add(float64(n))
}
