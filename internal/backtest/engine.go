package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/logger"
	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/repository"
	"github.com/yourusername/ricks-picks/internal/scoring"
)

// Engine orchestrates backtesting runs
type Engine struct {
	config    BacktestConfig
	ratingCfg rating.Config
	model     *scoring.Model

	teams   repository.TeamRepository
	games   repository.GameRepository
	results repository.BacktestResultRepository

	logger *logrus.Logger
	audit  *logger.AuditLogger
}

// NewEngine creates a new backtesting engine
func NewEngine(
	cfg BacktestConfig,
	repos *repository.Repositories,
	ratingCfg rating.Config,
	model *scoring.Model,
	log *logrus.Logger,
) (*Engine, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if model == nil {
		return nil, fmt.Errorf("scoring model is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}
	if log == nil {
		log = logrus.New()
	}

	return &Engine{
		config:    cfg,
		ratingCfg: ratingCfg,
		model:     model,
		teams:     repos.Team,
		games:     repos.Game,
		results:   repos.BacktestResult,
		logger:    log,
		audit:     logger.NewAuditLogger(log),
	}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() BacktestConfig {
	return e.config
}

// Run loads history, replays it, aggregates the outcomes and stores the result
func (e *Engine) Run(ctx context.Context) (*AggregatedResult, error) {
	start := time.Now()
	result, err := e.run(ctx)
	if err != nil {
		metrics.RecordBacktestRun("failure", time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordBacktestRun("success", time.Since(start).Seconds())
	metrics.UpdateBacktestResult(result.Metrics.GamesEvaluated, result.ATSByTier())
	return result, nil
}

func (e *Engine) run(ctx context.Context) (*AggregatedResult, error) {
	teams, err := e.teams.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	games, err := e.games.GetCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"teams": len(teams),
		"games": len(games),
		"start": e.config.StartDate,
		"end":   e.config.EndDate,
	}).Info("Starting backtest run")

	teamList := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t != nil {
			teamList = append(teamList, *t)
		}
	}
	gameList := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g != nil {
			gameList = append(gameList, *g)
		}
	}

	state, err := e.Replay(ctx, teamList, gameList)
	if err != nil {
		return nil, err
	}

	result, err := e.Aggregate(ctx, state.Outcomes)
	if err != nil {
		return nil, err
	}

	if e.results != nil {
		record, err := result.ToModel()
		if err != nil {
			return nil, err
		}
		if err := e.results.SaveResult(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save backtest result: %w", err)
		}
		e.audit.LogBacktestRun(record.ID.String(), record.GamesEvaluated, record.ATSPercentage, record.Recommendation)
	}

	e.logger.WithFields(logrus.Fields{
		"games":          result.Metrics.GamesEvaluated,
		"skipped":        state.Skipped,
		"ats_pct":        result.Metrics.ATS.Percentage,
		"p_value":        result.Metrics.PValue,
		"recommendation": result.Recommendation,
	}).Info("Backtest run complete")

	return &result, nil
}

// Aggregate computes metrics, the bootstrap and the season split for a set of outcomes
func (e *Engine) Aggregate(ctx context.Context, outcomes []GameOutcome) (AggregatedResult, error) {
	m := CalculateMetrics(outcomes, e.config.BreakEvenPct)

	var mc MonteCarloResult
	if e.config.BootstrapIterations > 0 {
		var err error
		mc, err = RunMonteCarlo(ctx, outcomes, MonteCarloConfig{
			Iterations:   e.config.BootstrapIterations,
			Seed:         e.config.Seed,
			BreakEvenPct: e.config.BreakEvenPct,
		})
		if err != nil {
			return AggregatedResult{}, err
		}
	}

	wf := RunWalkForward(outcomes, e.config.BreakEvenPct)
	return AggregateResults(outcomes, m, mc, wf), nil
}

// Replay walks every completed game in date order. Games inside the window with a
// market line are scored from the ratings as they stood before kickoff, then
// the result is folded into the ratings.
func (e *Engine) Replay(ctx context.Context, teams []models.Team, games []models.Game) (*BacktestState, error) {
	engine, err := rating.Initialize(teams, e.ratingCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ratings: %w", err)
	}
	engine.SetLogger(e.logger)

	ordered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Completed {
			ordered = append(ordered, g)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	eval := e.evaluationSet(ordered)
	state := NewBacktestState()
	lookup := engineLookup{engine: engine}

	for i, game := range ordered {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if _, ok := eval[game.ID]; ok {
			prediction := e.model.ScoreGame(scoring.ContextFromGame(game, lookup))
			outcome, ok := Evaluate(game, prediction)
			switch {
			case !ok:
				state.Skipped++
			case meetsConfidence(outcome.Confidence, e.config.MinConfidence):
				state.Record(outcome)
			}
		}

		if _, err := engine.ProcessGame(game); err != nil {
			if rating.IsSkippable(err) {
				continue
			}
			return nil, fmt.Errorf("backtest replay aborted: %w", err)
		}
	}

	return state, nil
}

// evaluationSet selects the scored games, keeping only the most recent SampleSize
func (e *Engine) evaluationSet(ordered []models.Game) map[int64]struct{} {
	eligible := make([]int64, 0, len(ordered))
	for _, g := range ordered {
		if g.Spread == nil || !g.HasFinalScore() || !e.config.includes(g) {
			continue
		}
		eligible = append(eligible, g.ID)
	}
	if n := e.config.SampleSize; n > 0 && len(eligible) > n {
		eligible = eligible[len(eligible)-n:]
	}

	set := make(map[int64]struct{}, len(eligible))
	for _, id := range eligible {
		set[id] = struct{}{}
	}
	return set
}

var confidenceRank = map[models.Confidence]int{
	models.ConfidenceLow:    0,
	models.ConfidenceMedium: 1,
	models.ConfidenceHigh:   2,
}

func meetsConfidence(c, floor models.Confidence) bool {
	if floor == "" {
		return true
	}
	return confidenceRank[c] >= confidenceRank[floor]
}

// engineLookup exposes the live ratings of a replay to the scoring model
type engineLookup struct {
	engine *rating.Engine
}

func (l engineLookup) RatingFor(teamID int64) (float64, bool) {
	return l.engine.Rating(teamID)
}
