// Package scheduler runs the weekly ingest, rating rebuild and prediction jobs on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/service"
	"github.com/yourusername/ricks-picks/internal/tracing"
)

// WeekIngester pulls one week of games from the data source
type WeekIngester interface {
	IngestWeek(ctx context.Context, year, week int, seasonType string) (*service.IngestionMetrics, error)
}

// RatingRebuilder replays the stored history into fresh ratings
type RatingRebuilder interface {
	Rebuild(ctx context.Context) (*rating.ReplayReport, error)
	Current() (rating.Snapshot, bool)
}

// Predictor scores the upcoming slate
type Predictor interface {
	PredictUpcoming(ctx context.Context, ratings service.RatingSource, opts service.PredictionOptions) ([]models.Prediction, error)
}

// Scheduler manages the recurring jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	now             func() time.Time
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
	onChange        []func()
}

// NewScheduler creates a new scheduler running in UTC
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		now:             time.Now,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      time.Hour,
		gracefulTimeout: 30 * time.Second,
	}
}

// OnDataChange registers fn to run after every successful ingest or rating rebuild
func (s *Scheduler) OnDataChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

func (s *Scheduler) dataChanged() {
	s.mu.RLock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *Scheduler) add(name, expr string, job func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if expr == "" {
		s.logger.WithField("job", name).Info("Job disabled, no cron expression")
		return nil
	}

	entryID, err := s.cron.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		_ = tracing.Trace(ctx, "job-"+name, func(ctx context.Context) error {
			job(ctx)
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "cron": expr}).Info("Scheduled job")
	return nil
}

// ScheduleIngestion pulls the current week of the season
func (s *Scheduler) ScheduleIngestion(expr string, ingester WeekIngester) error {
	return s.add("ingest", expr, s.ingestJob(ingester))
}

// ScheduleRatingRebuild replays all completed games
func (s *Scheduler) ScheduleRatingRebuild(expr string, rebuilder RatingRebuilder) error {
	return s.add("ratings", expr, s.ratingJob(rebuilder))
}

// SchedulePredictions scores upcoming games with the latest ratings
func (s *Scheduler) SchedulePredictions(expr string, ratings RatingRebuilder, predictor Predictor, opts service.PredictionOptions) error {
	return s.add("prediction", expr, s.predictionJob(ratings, predictor, opts))
}

func (s *Scheduler) ingestJob(ingester WeekIngester) func(context.Context) {
	return func(ctx context.Context) {
		season, week, seasonType, ok := SeasonWeek(s.now())
		if !ok {
			s.logger.Debug("Offseason, skipping scheduled ingest")
			return
		}
		m, err := ingester.IngestWeek(ctx, season, week, seasonType)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"season": season, "week": week}).Error("Scheduled ingest failed")
			return
		}
		s.dataChanged()
		s.logger.WithFields(logrus.Fields{"season": season, "week": week}).Infof("Scheduled ingest completed: %s", m.String())
	}
}

func (s *Scheduler) ratingJob(rebuilder RatingRebuilder) func(context.Context) {
	return func(ctx context.Context) {
		report, err := rebuilder.Rebuild(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled rating rebuild failed")
			return
		}
		s.dataChanged()
		s.logger.WithFields(logrus.Fields{
			"processed": report.Processed,
			"skipped":   len(report.Skipped),
		}).Info("Scheduled rating rebuild completed")
	}
}

func (s *Scheduler) predictionJob(ratings RatingRebuilder, predictor Predictor, opts service.PredictionOptions) func(context.Context) {
	return func(ctx context.Context) {
		snapshot, ok := ratings.Current()
		if !ok {
			s.logger.Warn("No ratings built yet, skipping scheduled predictions")
			return
		}
		preds, err := predictor.PredictUpcoming(ctx, snapshot, opts)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled predictions failed")
			return
		}
		s.logger.WithField("games", len(preds)).Info("Scheduled predictions completed")
	}
}

// SeasonWeek maps a date onto the college football calendar. Week one starts the
// Tuesday before Labor Day; anything earlier in August is week one as well.
// Weeks past the regular season are reported as postseason week one, and
// February through July is the offseason.
func SeasonWeek(now time.Time) (season, week int, seasonType string, ok bool) {
	now = now.UTC()
	season = now.Year()
	if now.Month() < time.August {
		if now.Month() == time.January {
			return season - 1, 1, string(models.SeasonTypePostseason), true
		}
		return 0, 0, "", false
	}

	start := weekOneStart(season)
	if now.Before(start) {
		return season, 1, string(models.SeasonTypeRegular), true
	}
	week = int(now.Sub(start)/(7*24*time.Hour)) + 1
	if week > regularSeasonWeeks {
		return season, 1, string(models.SeasonTypePostseason), true
	}
	return season, week, string(models.SeasonTypeRegular), true
}

const regularSeasonWeeks = 15

// weekOneStart is the Tuesday before the first Monday of September
func weekOneStart(year int) time.Time {
	laborDay := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for laborDay.Weekday() != time.Monday {
		laborDay = laborDay.AddDate(0, 0, 1)
	}
	return laborDay.AddDate(0, 0, -6)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs still running after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
