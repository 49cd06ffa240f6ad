package backtest

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/repository"
	"github.com/yourusername/ricks-picks/internal/scoring"
)

type stubTeams struct {
	repository.TeamRepository
	teams []*models.Team
}

func (s stubTeams) GetAll(ctx context.Context) ([]*models.Team, error) {
	return s.teams, nil
}

type stubGames struct {
	repository.GameRepository
	games []*models.Game
	err   error
}

func (s stubGames) GetCompleted(ctx context.Context) ([]*models.Game, error) {
	return s.games, s.err
}

type stubResults struct {
	repository.BacktestResultRepository
	saved []*models.BacktestResult
}

func (s *stubResults) SaveResult(ctx context.Context, result *models.BacktestResult) error {
	s.saved = append(s.saved, result)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func historyTeams() []models.Team {
	return []models.Team{
		{ID: 1, Name: "LSU", Conference: models.ConferenceSEC},
		{ID: 2, Name: "Yale", Conference: models.Conference("Ivy")},
		{ID: 3, Name: "Troy", Conference: models.ConferenceSunBelt},
	}
}

func historyGame(id, home, away int64, homeScore, awayScore int, spread *float64) models.Game {
	g := finalGame(id, homeScore, awayScore, spread)
	g.HomeTeamID = home
	g.AwayTeamID = away
	return g
}

func historyGames() []models.Game {
	upcoming := historyGame(4, 2, 3, 0, 0, f64(-1))
	upcoming.Completed = false
	upcoming.HomeScore, upcoming.AwayScore = nil, nil

	// listed out of order on purpose
	return []models.Game{
		historyGame(3, 1, 3, 24, 21, f64(-7)),
		historyGame(1, 1, 2, 30, 10, f64(-3)),
		historyGame(2, 3, 2, 20, 17, nil),
		upcoming,
		historyGame(5, 99, 1, 14, 28, f64(10)),
	}
}

func newTestEngine(t *testing.T, cfg BacktestConfig, repos *repository.Repositories) *Engine {
	t.Helper()
	model, err := scoring.NewModel(scoring.DefaultConfig())
	require.NoError(t, err)
	if repos == nil {
		repos = &repository.Repositories{}
	}
	engine, err := NewEngine(cfg, repos, rating.DefaultConfig(), model, quietLogger())
	require.NoError(t, err)
	return engine
}

func TestReplayScoresBeforeApplying(t *testing.T) {
	engine := newTestEngine(t, DefaultBacktestConfig(), nil)

	state, err := engine.Replay(context.Background(), historyTeams(), historyGames())
	require.NoError(t, err)
	require.Len(t, state.Outcomes, 3)

	first := state.Outcomes[0]
	assert.Equal(t, int64(1), first.GameID)
	require.True(t, first.HasRatings)
	assert.InDelta(t, (1550.0+65-1500)/25, first.RatingSpread, 1e-9, "seed ratings before any game")

	ratings, err := rating.Initialize(historyTeams(), rating.DefaultConfig())
	require.NoError(t, err)
	games := historyGames()
	_, err = ratings.ProcessGame(games[1])
	require.NoError(t, err)
	_, err = ratings.ProcessGame(games[2])
	require.NoError(t, err)
	lsu, _ := ratings.Rating(1)
	troy, _ := ratings.Rating(3)

	second := state.Outcomes[1]
	assert.Equal(t, int64(3), second.GameID)
	assert.InDelta(t, (lsu+65-troy)/25, second.RatingSpread, 1e-9, "ratings as of kickoff")

	third := state.Outcomes[2]
	assert.Equal(t, int64(5), third.GameID)
	assert.False(t, third.HasRatings, "unknown home team is unrated")
}

func TestReplaySampleSizeKeepsMostRecent(t *testing.T) {
	cfg := DefaultBacktestConfig()
	cfg.SampleSize = 1
	engine := newTestEngine(t, cfg, nil)

	state, err := engine.Replay(context.Background(), historyTeams(), historyGames())
	require.NoError(t, err)
	require.Len(t, state.Outcomes, 1)
	assert.Equal(t, int64(5), state.Outcomes[0].GameID)
}

func TestReplayFilters(t *testing.T) {
	cfg := DefaultBacktestConfig()
	cfg.Seasons = []int{2022}
	engine := newTestEngine(t, cfg, nil)
	state, err := engine.Replay(context.Background(), historyTeams(), historyGames())
	require.NoError(t, err)
	assert.Empty(t, state.Outcomes)

	cfg = DefaultBacktestConfig()
	cfg.MinConfidence = models.ConfidenceHigh
	engine = newTestEngine(t, cfg, nil)
	state, err = engine.Replay(context.Background(), historyTeams(), historyGames())
	require.NoError(t, err)
	for _, o := range state.Outcomes {
		assert.Equal(t, models.ConfidenceHigh, o.Confidence)
	}
}

func TestReplayCancelled(t *testing.T) {
	engine := newTestEngine(t, DefaultBacktestConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Replay(ctx, historyTeams(), historyGames())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineRun(t *testing.T) {
	var teams []*models.Team
	for _, tm := range historyTeams() {
		tm := tm
		teams = append(teams, &tm)
	}
	var games []*models.Game
	for _, g := range historyGames() {
		g := g
		games = append(games, &g)
	}
	results := &stubResults{}

	cfg := DefaultBacktestConfig()
	cfg.BootstrapIterations = 50
	cfg.Seed = 7
	engine := newTestEngine(t, cfg, &repository.Repositories{
		Team:           stubTeams{teams: teams},
		Game:           stubGames{games: games},
		BacktestResult: results,
	})

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Metrics.GamesEvaluated)
	assert.Equal(t, 50, result.MonteCarlo.Iterations)
	assert.NotEmpty(t, result.Recommendation)

	require.Len(t, results.saved, 1)
	assert.Equal(t, 3, results.saved[0].GamesEvaluated)
	assert.Equal(t, []int{2023}, results.saved[0].Seasons)
}

func TestEngineRunLoadFailure(t *testing.T) {
	engine := newTestEngine(t, DefaultBacktestConfig(), &repository.Repositories{
		Team: stubTeams{},
		Game: stubGames{err: errors.New("boom")},
	})

	_, err := engine.Run(context.Background())
	assert.ErrorContains(t, err, "failed to load games")
}

func TestNewEngineValidation(t *testing.T) {
	model, err := scoring.NewModel(scoring.DefaultConfig())
	require.NoError(t, err)

	_, err = NewEngine(DefaultBacktestConfig(), nil, rating.DefaultConfig(), model, nil)
	assert.Error(t, err)

	_, err = NewEngine(DefaultBacktestConfig(), &repository.Repositories{}, rating.DefaultConfig(), nil, nil)
	assert.Error(t, err)

	bad := DefaultBacktestConfig()
	bad.MinConfidence = "Extreme"
	_, err = NewEngine(bad, &repository.Repositories{}, rating.DefaultConfig(), model, nil)
	assert.Error(t, err)
}
