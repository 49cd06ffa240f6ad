package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/logger"
	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/repository"
	"github.com/yourusername/ricks-picks/internal/scoring"
)

// PredictionOptions controls a prediction run
type PredictionOptions struct {
	Limit   int  // max upcoming games, zero for all
	Persist bool // store predictions
	Workers int
}

// PredictionService scores upcoming games against the current ratings
type PredictionService struct {
	games       repository.GameRepository
	predictions repository.PredictionRepository
	model       *scoring.Model
	cache       *gocache.Cache
	now         func() time.Time

	logger  *logrus.Logger
	predLog *logger.PredictionLogger
	audit   *logger.AuditLogger
}

// NewPredictionService creates a prediction service. A zero ttl disables caching.
func NewPredictionService(
	repos *repository.Repositories,
	model *scoring.Model,
	ttl, cleanup time.Duration,
	log *logrus.Logger,
) *PredictionService {
	s := &PredictionService{
		games:       repos.Game,
		predictions: repos.Prediction,
		model:       model,
		now:         time.Now,
		logger:      log,
		predLog:     logger.NewPredictionLogger(log),
		audit:       logger.NewAuditLogger(log),
	}
	if ttl > 0 {
		s.cache = gocache.New(ttl, cleanup)
	}
	return s
}

// PredictUpcoming scores every upcoming game using ratings as the lookup
func (s *PredictionService) PredictUpcoming(ctx context.Context, ratings RatingSource, opts PredictionOptions) ([]models.Prediction, error) {
	games, err := s.games.GetUpcoming(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming games: %w", err)
	}
	return s.PredictGames(ctx, derefGames(games), ratings, opts)
}

// RatingSource is the read-only view of ratings used while scoring
type RatingSource interface {
	scoring.RatingLookup
	Version() string
}

// PredictGames scores the given games, reusing cached predictions whose scoring inputs are unchanged.
// With opts.Persist a prediction is stored once, so a cache hit that was already persisted is not inserted again.
func (s *PredictionService) PredictGames(ctx context.Context, games []models.Game, ratings RatingSource, opts PredictionOptions) ([]models.Prediction, error) {
	start := time.Now()
	version := ""
	if ratings != nil {
		version = ratings.Version()
	}

	results := make([]models.Prediction, len(games))
	keys := make([]string, len(games))
	persisted := make([]bool, len(games))
	var pending []scoring.GameContext
	var pendingIdx []int
	cached := 0

	for i, game := range games {
		gc := scoring.ContextFromGame(game, ratings)
		keys[i] = cacheKey(gc, version)
		if entry, ok := s.cached(keys[i]); ok {
			results[i] = entry.prediction
			persisted[i] = entry.persisted
			cached++
			continue
		}
		pending = append(pending, gc)
		pendingIdx = append(pendingIdx, i)
	}

	scored, err := s.model.ScoreAll(ctx, pending, opts.Workers)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for j, p := range scored {
		i := pendingIdx[j]
		p.ID = uuid.New()
		p.PredictedAt = now
		results[i] = p
		s.store(keys[i], cachedPrediction{prediction: p})
	}

	plays := 0
	for i := range results {
		p := &results[i]
		if p.IsPlay() {
			plays++
		}
		s.predLog.LogPrediction(p)
		edge := 0.0
		if p.Edge != nil {
			edge = *p.Edge
		}
		metrics.RecordPrediction(string(p.Confidence), string(p.Recommendation), edge)

		if opts.Persist && !persisted[i] {
			if err := s.predictions.Insert(ctx, p); err != nil {
				return nil, fmt.Errorf("failed to store prediction for game %d: %w", p.GameID, err)
			}
			s.store(keys[i], cachedPrediction{prediction: *p, persisted: true})
			s.audit.LogPredictionPersisted(p.ID.String(), p.GameID, string(p.Recommendation), edge)
		}
	}

	elapsed := time.Since(start)
	metrics.RecordPredictionBatch(elapsed.Seconds())
	s.predLog.LogBatch(len(results), plays, cached, float64(elapsed.Microseconds())/1000)
	return results, nil
}

// latestWindow bounds how far back Latest looks for stored predictions
const latestWindow = 7 * 24 * time.Hour

// Latest returns stored predictions from the past week, newest first
func (s *PredictionService) Latest(ctx context.Context, limit int) ([]*models.Prediction, error) {
	stored, err := s.predictions.GetSince(ctx, s.now().Add(-latestWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].PredictedAt.After(stored[j].PredictedAt)
	})
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}
	return stored, nil
}

// Invalidate drops every cached prediction
func (s *PredictionService) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

// cachedPrediction remembers whether the prediction already has a stored row
type cachedPrediction struct {
	prediction models.Prediction
	persisted  bool
}

// cacheKey ties a prediction to every scoring input, ratings included, and the ratings version
func cacheKey(gc scoring.GameContext, version string) string {
	raw, err := json.Marshal(gc)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return strconv.FormatInt(gc.GameID, 10) + "|" + version + "|" + hex.EncodeToString(sum[:])
}

func (s *PredictionService) cached(key string) (cachedPrediction, bool) {
	if s.cache == nil || key == "" {
		return cachedPrediction{}, false
	}
	v, ok := s.cache.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return cachedPrediction{}, false
	}
	return v.(cachedPrediction), true
}

func (s *PredictionService) store(key string, entry cachedPrediction) {
	if s.cache != nil && key != "" {
		s.cache.SetDefault(key, entry)
	}
}
