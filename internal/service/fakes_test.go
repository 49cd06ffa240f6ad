package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/datasource"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeTeamRepo struct {
	mu      sync.Mutex
	teams   map[int64]*models.Team
	ratings map[int64]float64
	err     error
}

func newFakeTeamRepo(teams ...models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int64]*models.Team)}
	for i := range teams {
		t := teams[i]
		r.teams[t.ID] = &t
	}
	return r
}

func (r *fakeTeamRepo) Upsert(ctx context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *team
	r.teams[t.ID] = &t
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.teams[id]; ok {
		return t, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeTeamRepo) GetAll(ctx context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateRatings(ctx context.Context, ratings map[int64]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings = ratings
	for id, v := range ratings {
		if t, ok := r.teams[id]; ok {
			rating := v
			t.Rating = &rating
		}
	}
	return nil
}

type fakeGameRepo struct {
	mu       sync.Mutex
	games    map[int64]*models.Game
	err      error
	upserted int
}

func newFakeGameRepo(games ...models.Game) *fakeGameRepo {
	r := &fakeGameRepo{games: make(map[int64]*models.Game)}
	for i := range games {
		g := games[i]
		r.games[g.ID] = &g
	}
	return r
}

func (r *fakeGameRepo) Upsert(ctx context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := *game
	r.games[g.ID] = &g
	r.upserted++
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.games[id]; ok {
		return g, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeGameRepo) sorted(keep func(*models.Game) bool) []*models.Game {
	var out []*models.Game
	for _, g := range r.games {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

func (r *fakeGameRepo) GetCompleted(ctx context.Context) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(g *models.Game) bool { return g.Completed }), nil
}

func (r *fakeGameRepo) GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(g *models.Game) bool { return !g.Completed })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGameRepo) GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(g *models.Game) bool { return g.Season == season && g.Week == week }), nil
}

func (r *fakeGameRepo) GetWithLines(ctx context.Context, seasons []int, limit int) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(g *models.Game) bool { return g.Completed && g.HasLine() }), nil
}

type fakePredictionRepo struct {
	mu       sync.Mutex
	inserted []models.Prediction
}

func (r *fakePredictionRepo) Insert(ctx context.Context, p *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.inserted {
		if existing.ID == p.ID {
			return fmt.Errorf("duplicate key value violates unique constraint \"predictions_pkey\": %s", p.ID)
		}
	}
	r.inserted = append(r.inserted, *p)
	return nil
}

func (r *fakePredictionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.inserted {
		if r.inserted[i].ID == id {
			return &r.inserted[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakePredictionRepo) GetLatestByGameID(ctx context.Context, gameID int64) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.inserted) - 1; i >= 0; i-- {
		if r.inserted[i].GameID == gameID {
			return &r.inserted[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakePredictionRepo) GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prediction
	for i := range r.inserted {
		if !r.inserted[i].PredictedAt.Before(since) {
			out = append(out, &r.inserted[i])
		}
	}
	return out, nil
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []models.RatingSnapshot
	err       error
}

func (r *fakeSnapshotRepo) ReplaceAll(ctx context.Context, snapshots []models.RatingSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snapshots = append([]models.RatingSnapshot(nil), snapshots...)
	return nil
}

func (r *fakeSnapshotRepo) GetByTeamID(ctx context.Context, teamID int64) ([]models.RatingSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RatingSnapshot
	for _, s := range r.snapshots {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBacktestRepo struct {
	saved []*models.BacktestResult
}

func (r *fakeBacktestRepo) SaveResult(ctx context.Context, result *models.BacktestResult) error {
	r.saved = append(r.saved, result)
	return nil
}

func (r *fakeBacktestRepo) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	return r.saved, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeRepos struct {
	teams       *fakeTeamRepo
	games       *fakeGameRepo
	predictions *fakePredictionRepo
	snapshots   *fakeSnapshotRepo
	backtests   *fakeBacktestRepo
}

func (f fakeRepos) repositories() *repository.Repositories {
	return &repository.Repositories{
		Team:           f.teams,
		Game:           f.games,
		Prediction:     f.predictions,
		RatingSnapshot: f.snapshots,
		BacktestResult: f.backtests,
	}
}

func newFakeRepos(teams []models.Team, games []models.Game) fakeRepos {
	return fakeRepos{
		teams:       newFakeTeamRepo(teams...),
		games:       newFakeGameRepo(games...),
		predictions: &fakePredictionRepo{},
		snapshots:   &fakeSnapshotRepo{},
		backtests:   &fakeBacktestRepo{},
	}
}

type fakeSource struct {
	teams    []datasource.TeamData
	games    []datasource.GameData
	lines    []datasource.GameLines
	weather  []datasource.WeatherData
	rankings []datasource.Ranking

	gamesErr   error
	linesErr   error
	weatherErr error
}

func (f *fakeSource) FetchTeams(ctx context.Context, year int) ([]datasource.TeamData, error) {
	return f.teams, nil
}

func (f *fakeSource) FetchGames(ctx context.Context, year, week int, seasonType string) ([]datasource.GameData, error) {
	return f.games, f.gamesErr
}

func (f *fakeSource) FetchLines(ctx context.Context, year, week int, seasonType string) ([]datasource.GameLines, error) {
	return f.lines, f.linesErr
}

func (f *fakeSource) FetchWeather(ctx context.Context, year, week int, seasonType string) ([]datasource.WeatherData, error) {
	return f.weather, f.weatherErr
}

func (f *fakeSource) FetchRankings(ctx context.Context, year, week int, seasonType string) ([]datasource.Ranking, error) {
	return f.rankings, nil
}

func (f *fakeSource) Name() string    { return "fake" }
func (f *fakeSource) IsEnabled() bool { return true }

var errBoom = errors.New("boom")

func intPtr(v int) *int       { return &v }
func f64(v float64) *float64  { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func day(n int) time.Time {
	return time.Date(2023, 9, 1, 18, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}
