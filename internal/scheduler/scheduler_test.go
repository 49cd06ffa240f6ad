package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/service"
)

type stubIngester struct {
	season, week int
	seasonType   string
	calls        int
}

func (s *stubIngester) IngestWeek(ctx context.Context, year, week int, seasonType string) (*service.IngestionMetrics, error) {
	s.calls++
	s.season, s.week, s.seasonType = year, week, seasonType
	return &service.IngestionMetrics{}, nil
}

type stubRatings struct {
	rebuilds int
	built    bool
	err      error
}

func (s *stubRatings) Rebuild(ctx context.Context) (*rating.ReplayReport, error) {
	s.rebuilds++
	if s.err != nil {
		return nil, s.err
	}
	return &rating.ReplayReport{Processed: 3}, nil
}

func (s *stubRatings) Current() (rating.Snapshot, bool) {
	return rating.NewSnapshot(map[int64]float64{1: 1550}, nil, time.Time{}), s.built
}

type stubPredictor struct {
	calls int
	opts  service.PredictionOptions
}

func (s *stubPredictor) PredictUpcoming(ctx context.Context, ratings service.RatingSource, opts service.PredictionOptions) ([]models.Prediction, error) {
	s.calls++
	s.opts = opts
	return nil, nil
}

func quietScheduler() *Scheduler {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewScheduler(l)
}

func TestSeasonWeek(t *testing.T) {
	tests := []struct {
		name       string
		at         time.Time
		season     int
		week       int
		seasonType string
		ok         bool
	}{
		{"week zero folds into week one", time.Date(2023, 8, 26, 18, 0, 0, 0, time.UTC), 2023, 1, "regular", true},
		{"labor day weekend", time.Date(2023, 9, 2, 18, 0, 0, 0, time.UTC), 2023, 1, "regular", true},
		{"second saturday", time.Date(2023, 9, 9, 18, 0, 0, 0, time.UTC), 2023, 2, "regular", true},
		{"bowl season", time.Date(2023, 12, 20, 18, 0, 0, 0, time.UTC), 2023, 1, "postseason", true},
		{"january belongs to the prior season", time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC), 2023, 1, "postseason", true},
		{"offseason", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 0, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season, week, seasonType, ok := SeasonWeek(tt.at)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.season, season)
			assert.Equal(t, tt.week, week)
			assert.Equal(t, tt.seasonType, seasonType)
		})
	}
}

func TestIngestJob(t *testing.T) {
	s := quietScheduler()
	s.now = func() time.Time { return time.Date(2023, 9, 9, 6, 0, 0, 0, time.UTC) }
	ingester := &stubIngester{}

	s.ingestJob(ingester)(context.Background())
	assert.Equal(t, 1, ingester.calls)
	assert.Equal(t, 2023, ingester.season)
	assert.Equal(t, 2, ingester.week)
	assert.Equal(t, "regular", ingester.seasonType)

	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	s.ingestJob(ingester)(context.Background())
	assert.Equal(t, 1, ingester.calls, "offseason is skipped")
}

func TestRatingAndPredictionJobs(t *testing.T) {
	s := quietScheduler()
	ratings := &stubRatings{}
	predictor := &stubPredictor{}
	opts := service.PredictionOptions{Persist: true, Workers: 2}

	s.predictionJob(ratings, predictor, opts)(context.Background())
	assert.Zero(t, predictor.calls, "no ratings yet")

	s.ratingJob(ratings)(context.Background())
	ratings.built = true
	s.predictionJob(ratings, predictor, opts)(context.Background())
	assert.Equal(t, 1, ratings.rebuilds)
	assert.Equal(t, 1, predictor.calls)
	assert.Equal(t, opts, predictor.opts)

	ratings.err = errors.New("boom")
	assert.NotPanics(t, func() { s.ratingJob(ratings)(context.Background()) })
}

func TestDataChangeHooks(t *testing.T) {
	s := quietScheduler()
	s.now = func() time.Time { return time.Date(2023, 9, 9, 6, 0, 0, 0, time.UTC) }
	changes := 0
	s.OnDataChange(func() { changes++ })

	s.ingestJob(&stubIngester{})(context.Background())
	assert.Equal(t, 1, changes, "after ingest")

	ratings := &stubRatings{}
	s.ratingJob(ratings)(context.Background())
	assert.Equal(t, 2, changes, "after rebuild")

	ratings.err = errors.New("boom")
	s.ratingJob(ratings)(context.Background())
	assert.Equal(t, 2, changes, "failed rebuild keeps the cache")

	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	s.ingestJob(&stubIngester{})(context.Background())
	assert.Equal(t, 2, changes, "offseason")
}

func TestScheduling(t *testing.T) {
	s := quietScheduler()

	assert.Error(t, s.Start(), "no jobs")
	assert.Error(t, s.ScheduleIngestion("not a cron", &stubIngester{}))
	require.NoError(t, s.ScheduleRatingRebuild("", &stubRatings{}))
	assert.Empty(t, s.Entries(), "empty expression disables the job")

	require.NoError(t, s.ScheduleIngestion("0 6 * * 1", &stubIngester{}))
	require.NoError(t, s.SchedulePredictions("0 7 * * 1-6", &stubRatings{}, &stubPredictor{}, service.PredictionOptions{}))
	assert.Len(t, s.Entries(), 2)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.ScheduleIngestion("0 6 * * 1", &stubIngester{}), "cannot add while running")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}
