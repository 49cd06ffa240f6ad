package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/logger"
	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/repository"
)

// Transactor runs fn inside a single database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// RatingService rebuilds team ratings from the stored game history
type RatingService struct {
	teams     repository.TeamRepository
	games     repository.GameRepository
	snapshots repository.RatingSnapshotRepository
	tx        Transactor
	cfg       rating.Config

	logger    *logrus.Logger
	ratingLog *logger.RatingLogger
	audit     *logger.AuditLogger

	mu        sync.RWMutex
	current   rating.Snapshot
	standings []rating.TeamRating
	built     bool
}

// NewRatingService creates a rating service. tx may be nil when persistence runs without a database.
func NewRatingService(
	repos *repository.Repositories,
	tx Transactor,
	cfg rating.Config,
	log *logrus.Logger,
) *RatingService {
	s := &RatingService{
		teams:     repos.Team,
		games:     repos.Game,
		snapshots: repos.RatingSnapshot,
		tx:        tx,
		cfg:       cfg,
		logger:    log,
		ratingLog: logger.NewRatingLogger(log),
		audit:     logger.NewAuditLogger(log),
	}
	s.auditOverrides()
	return s
}

// auditOverrides records every rating constant that differs from the standard set
func (s *RatingService) auditOverrides() {
	def := rating.DefaultConfig()
	for _, p := range []struct {
		name      string
		std, used float64
	}{
		{"k_factor", def.KFactor, s.cfg.KFactor},
		{"home_field_bonus", def.HomeFieldBonus, s.cfg.HomeFieldBonus},
		{"upper_seed", def.UpperSeed, s.cfg.UpperSeed},
		{"lower_seed", def.LowerSeed, s.cfg.LowerSeed},
		{"points_per_spread", def.PointsPerSpread, s.cfg.PointsPerSpread},
	} {
		if p.std != p.used {
			s.audit.LogParameterChange(p.name, p.std, p.used, "config")
		}
	}
}

// Rebuild replays every completed game from the seeds and persists the result.
// An ordering violation aborts the rebuild and leaves stored ratings untouched.
func (s *RatingService) Rebuild(ctx context.Context) (*rating.ReplayReport, error) {
	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		metrics.RecordRebuild("failure")
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	games, err := s.games.GetCompleted(ctx)
	if err != nil {
		metrics.RecordRebuild("failure")
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	engine, report, err := s.replay(derefTeams(teams), derefGames(games))
	if err != nil {
		metrics.RecordRebuild("failure")
		return report, err
	}

	if err := s.persist(ctx, engine); err != nil {
		metrics.RecordRebuild("failure")
		return report, err
	}

	s.publish(engine)
	metrics.RecordRebuild("success")
	return report, nil
}

// Replay folds the given teams and games without touching storage
func (s *RatingService) Replay(teams []models.Team, games []models.Game) (*rating.ReplayReport, error) {
	engine, report, err := s.replay(teams, games)
	if err != nil {
		return report, err
	}
	s.publish(engine)
	return report, nil
}

func (s *RatingService) replay(teams []models.Team, games []models.Game) (*rating.Engine, *rating.ReplayReport, error) {
	engine, err := rating.Initialize(teams, s.cfg)
	if err != nil {
		return nil, nil, err
	}
	engine.SetLogger(s.ratingLog.Entry)

	s.ratingLog.LogReplayStarted(len(teams), len(games))
	report, err := engine.Replay(games)
	if err != nil {
		var ordering *rating.OrderingError
		if errors.As(err, &ordering) {
			s.ratingLog.LogOrderingViolation(ordering.GameID, err)
		}
		return nil, report, err
	}

	for _, skipped := range report.Skipped {
		s.ratingLog.LogRecordSkipped(skipped.GameID, rating.ReasonLabel(skipped.Reason), skipped.Reason)
	}
	s.ratingLog.LogReplayCompleted(report.Processed, report.Ignored, len(report.Skipped), report.Duration)
	metrics.RecordReplay(report.Processed, report.SkipCounts(), report.Duration.Seconds())

	return engine, report, nil
}

func (s *RatingService) persist(ctx context.Context, engine *rating.Engine) error {
	standings := engine.Standings()
	final := make(map[int64]float64, len(standings))
	var history []models.RatingSnapshot
	for _, tr := range standings {
		final[tr.TeamID] = tr.Rating
		history = append(history, engine.History(tr.TeamID)...)
	}

	write := func(txCtx context.Context) error {
		if err := s.teams.UpdateRatings(txCtx, final); err != nil {
			return fmt.Errorf("failed to store ratings: %w", err)
		}
		if err := s.snapshots.ReplaceAll(txCtx, history); err != nil {
			return fmt.Errorf("failed to store rating history: %w", err)
		}
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.WithTransaction(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return err
	}

	s.audit.LogRatingsPersisted(len(final), len(history), engine.LastProcessed())
	return nil
}

func (s *RatingService) publish(engine *rating.Engine) {
	standings := engine.Standings()

	s.mu.Lock()
	s.current = engine.Ratings()
	s.standings = standings
	s.built = true
	s.mu.Unlock()

	top := 0.0
	if len(standings) > 0 {
		top = standings[0].Rating
	}
	metrics.UpdateRatingGauges(len(standings), top)

	n := len(standings)
	if n > 10 {
		n = 10
	}
	names := make([]string, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		names[i] = standings[i].Name
		values[i] = standings[i].Rating
	}
	s.ratingLog.LogTopTeams(names, values)
}

// Current returns the latest published ratings. ok is false before the first rebuild.
func (s *RatingService) Current() (rating.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.built
}

// Standings returns the latest published standings
func (s *RatingService) Standings() []rating.TeamRating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rating.TeamRating, len(s.standings))
	copy(out, s.standings)
	return out
}

// LoadStored builds a snapshot from ratings already persisted on the teams table
func (s *RatingService) LoadStored(ctx context.Context) (rating.Snapshot, error) {
	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		return rating.Snapshot{}, fmt.Errorf("failed to load teams: %w", err)
	}
	ratings := make(map[int64]float64, len(teams))
	names := make(map[string]int64, len(teams))
	for _, t := range teams {
		names[t.Name] = t.ID
		if t.HasRating() {
			ratings[t.ID] = *t.Rating
		}
	}
	return rating.NewSnapshot(ratings, names, latestUpdate(teams)), nil
}

func latestUpdate(teams []*models.Team) (latest time.Time) {
	for _, t := range teams {
		if t.UpdatedAt.After(latest) {
			latest = t.UpdatedAt
		}
	}
	return latest
}

func derefTeams(in []*models.Team) []models.Team {
	out := make([]models.Team, 0, len(in))
	for _, t := range in {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func derefGames(in []*models.Game) []models.Game {
	out := make([]models.Game, 0, len(in))
	for _, g := range in {
		if g != nil {
			out = append(out, *g)
		}
	}
	return out
}
