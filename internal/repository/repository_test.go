package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

func f64(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func setupRepos(t *testing.T) (*Repositories, context.Context) {
	t.Helper()
	db := database.SetupTestDB(t)
	database.TruncateAll(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return repos, ctx
}

func seedTeams(t *testing.T, ctx context.Context, repos *Repositories) {
	t.Helper()
	for _, team := range []*models.Team{
		{ID: 333, Name: "Alabama", Conference: models.ConferenceSEC},
		{ID: 2567, Name: "SMU", Conference: models.ConferenceAmerican},
	} {
		require.NoError(t, repos.Team.Upsert(ctx, team))
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestTeamRepositoryRatings(t *testing.T) {
	repos, ctx := setupRepos(t)
	seedTeams(t, ctx, repos)

	require.NoError(t, repos.Team.UpdateRatings(ctx, map[int64]float64{333: 1712.4, 2567: 1488.1}))

	team, err := repos.Team.GetByName(ctx, "Alabama")
	require.NoError(t, err)
	require.NotNil(t, team.Rating)
	assert.InDelta(t, 1712.4, *team.Rating, 1e-9)
	assert.Equal(t, models.ConferenceSEC, team.Conference)

	_, err = repos.Team.GetByID(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGameRepositoryUpsertAndQueries(t *testing.T) {
	repos, ctx := setupRepos(t)
	seedTeams(t, ctx, repos)

	kickoff := time.Date(2023, 9, 2, 16, 0, 0, 0, time.UTC)
	game := &models.Game{
		ID: 401520281, Season: 2023, Week: 1, SeasonType: models.SeasonTypeRegular,
		StartDate: kickoff, HomeTeamID: 333, AwayTeamID: 2567,
		HomeTeam: "Alabama", AwayTeam: "SMU",
		HomeConference: models.ConferenceSEC, AwayConference: models.ConferenceAmerican,
		Spread: f64(-24.5), Weather: models.Weather{TemperatureF: f64(88)},
	}
	require.NoError(t, repos.Game.Upsert(ctx, game))

	game.Completed = true
	game.HomeScore, game.AwayScore = intPtr(56), intPtr(7)
	game.Spread = nil
	require.NoError(t, repos.Game.Upsert(ctx, game))

	stored, err := repos.Game.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRateable())
	require.NotNil(t, stored.Spread, "a missing line never erases a stored one")
	assert.Equal(t, -24.5, *stored.Spread)

	completed, err := repos.Game.GetCompleted(ctx)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	withLines, err := repos.Game.GetWithLines(ctx, []int{2023}, 0)
	require.NoError(t, err)
	assert.Len(t, withLines, 1)

	none, err := repos.Game.GetWithLines(ctx, []int{2019}, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPredictionRepositoryRoundTrip(t *testing.T) {
	repos, ctx := setupRepos(t)

	p := &models.Prediction{
		ID: uuid.New(), GameID: 7, HomeTeam: "LSU", AwayTeam: "Ole Miss",
		PredictedSpread: 6.5, Confidence: models.ConfidenceMedium, Recommendation: models.RecommendNoPlay,
		Factors:     []models.FactorContribution{{Label: models.FactorHomeField, Value: 2}},
		Rationale:   []string{"LSU favored by 6.5"},
		PredictedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repos.Prediction.Insert(ctx, p))

	got, err := repos.Prediction.GetLatestByGameID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, p.Factors, got.Factors)
	assert.Equal(t, p.Rationale, got.Rationale)
}

func TestRatingSnapshotReplaceAll(t *testing.T) {
	repos, ctx := setupRepos(t)
	seedTeams(t, ctx, repos)

	gameID := int64(9)
	snapshots := []models.RatingSnapshot{
		{TeamID: 333, Sequence: 0, Rating: 1550},
		{TeamID: 333, GameID: &gameID, Sequence: 1, Rating: 1561.2, Delta: 11.2, AsOf: time.Now().UTC()},
	}
	require.NoError(t, repos.RatingSnapshot.ReplaceAll(ctx, snapshots))
	require.NoError(t, repos.RatingSnapshot.ReplaceAll(ctx, snapshots))

	history, err := repos.RatingSnapshot.GetByTeamID(ctx, 333)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsSeed())
	assert.True(t, history[0].AsOf.IsZero())
}
