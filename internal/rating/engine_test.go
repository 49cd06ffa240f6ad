package rating

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/models"
)

const (
	homeID int64 = 1
	awayID int64 = 2

	ratingDelta = 1e-9
)

var kickoff = time.Date(2023, 9, 2, 19, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func testTeams() []models.Team {
	return []models.Team{
		{ID: homeID, Name: "Georgia", Conference: models.ConferenceSEC},
		{ID: awayID, Name: "Toledo", Conference: models.ConferenceMAC},
		{ID: 3, Name: "Notre Dame", Conference: models.ConferenceIndependents},
	}
}

func completedGame(id int64, home, away int64, homeScore, awayScore int, at time.Time) models.Game {
	return models.Game{
		ID:         id,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
		Completed:  true,
		StartDate:  at,
	}
}

func quietEngine(t *testing.T, teams []models.Team, cfg Config) *Engine {
	t.Helper()
	e, err := Initialize(teams, cfg)
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	e.SetLogger(logger)
	return e
}

func TestInitializeSeedsByConference(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())

	r, ok := e.Rating(homeID)
	require.True(t, ok)
	assert.Equal(t, 1550.0, r, "power conference teams seed high")

	r, _ = e.Rating(awayID)
	assert.Equal(t, 1500.0, r)

	r, _ = e.Rating(3)
	assert.Equal(t, 1500.0, r, "independents are not a power conference")

	history := e.History(homeID)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsSeed())
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowerSeed = 1600
	_, err := Initialize(testTeams(), cfg)
	assert.Error(t, err)
}

func TestProcessGameEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpperSeed = 1600
	e := quietEngine(t, testTeams(), cfg)

	update, err := e.ProcessGame(completedGame(10, homeID, awayID, 30, 10, kickoff))
	require.NoError(t, err)

	assert.InDelta(t, 0.7211, update.ExpectedHome, 1e-4)
	assert.InDelta(t, 3.9957, update.MarginMultiplier, 1e-4)
	assert.InDelta(t, 1635.66, update.HomeAfter, 0.01)
	assert.InDelta(t, 1464.34, update.AwayAfter, 0.01)

	r, _ := e.Rating(homeID)
	assert.Equal(t, update.HomeAfter, r)
	assert.Len(t, e.History(homeID), 2)
	assert.Len(t, e.History(awayID), 2)
	assert.Equal(t, kickoff, e.LastProcessed())
}

func TestTieBetweenEqualTeamsWithoutBonusIsNeutral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HomeFieldBonus = 0
	teams := []models.Team{
		{ID: homeID, Name: "A", Conference: models.ConferenceSEC},
		{ID: awayID, Name: "B", Conference: models.ConferenceACC},
	}
	e := quietEngine(t, teams, cfg)

	update, err := e.ProcessGame(completedGame(1, homeID, awayID, 21, 21, kickoff))
	require.NoError(t, err)
	assert.InDelta(t, 0, update.HomeDelta(), ratingDelta)
	assert.InDelta(t, 0, update.AwayDelta(), ratingDelta)
}

func TestUpdatesAreZeroSumWithoutBonus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HomeFieldBonus = 0
	e := quietEngine(t, testTeams(), cfg)

	games := []models.Game{
		completedGame(1, homeID, awayID, 45, 3, kickoff),
		completedGame(2, awayID, 3, 17, 20, kickoff.Add(24*time.Hour)),
		completedGame(3, 3, homeID, 28, 27, kickoff.Add(48*time.Hour)),
	}
	report, err := e.Replay(games)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)

	for _, u := range report.Updates {
		assert.InDelta(t, 0, u.HomeDelta()+u.AwayDelta(), ratingDelta)
	}

	total := 0.0
	for _, id := range []int64{homeID, awayID, 3} {
		r, _ := e.Rating(id)
		total += r
	}
	assert.InDelta(t, 1550+1500+1500, total, 1e-6)
}

func TestMarginMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		margin int
		want   float64
	}{
		{name: "tie clamps to one", margin: 0, want: 1},
		{name: "one point", margin: 1, want: 1},
		{name: "negative margin uses magnitude", margin: -20, want: 3.995732273553991},
		{name: "blowout", margin: 56, want: 5.02535169073515},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MarginMultiplier(tt.margin), 1e-9)
		})
	}
}

func TestExpectedScoreIsComplementary(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), ratingDelta)
	assert.InDelta(t, 1.0, ExpectedScore(1700, 1500)+ExpectedScore(1500, 1700), ratingDelta)
}

func TestOrderingViolationIsFatal(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())

	_, err := e.ProcessGame(completedGame(1, homeID, awayID, 10, 7, kickoff))
	require.NoError(t, err)

	_, err = e.ProcessGame(completedGame(2, homeID, 3, 10, 7, kickoff.Add(-time.Hour)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderingViolation))
	assert.False(t, IsSkippable(err))

	var orderErr *OrderingError
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, int64(2), orderErr.GameID)

	// same timestamp is allowed
	_, err = e.ProcessGame(completedGame(3, awayID, 3, 14, 7, kickoff))
	assert.NoError(t, err)
}

func TestSkippableFailuresLeaveRatingsUntouched(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())

	malformed := completedGame(2, homeID, awayID, 0, 0, kickoff)
	malformed.AwayScore = nil

	tests := []struct {
		name   string
		game   models.Game
		reason error
	}{
		{name: "unknown home team", game: completedGame(1, 99, awayID, 10, 0, kickoff), reason: ErrMissingTeam},
		{name: "missing score", game: malformed, reason: ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ProcessGame(tt.game)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.reason))
			assert.True(t, IsSkippable(err))

			var skipErr *SkipError
			require.True(t, errors.As(err, &skipErr))
			assert.Equal(t, tt.game.ID, skipErr.GameID)
		})
	}

	r, _ := e.Rating(awayID)
	assert.Equal(t, 1500.0, r)
	assert.Len(t, e.History(awayID), 1)
}

func TestDuplicateGameIsSkipped(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())
	game := completedGame(7, homeID, awayID, 24, 17, kickoff)

	_, err := e.ProcessGame(game)
	require.NoError(t, err)
	_, err = e.ProcessGame(game)
	assert.True(t, errors.Is(err, ErrDuplicateGame))
	assert.Len(t, e.History(homeID), 2)
}

func TestReplaySortsIgnoresAndCountsSkips(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())

	malformed := completedGame(4, awayID, 3, 0, 0, kickoff.Add(72*time.Hour))
	malformed.HomeScore = nil
	upcoming := models.Game{ID: 5, HomeTeamID: homeID, AwayTeamID: 3, StartDate: kickoff.Add(96 * time.Hour)}

	games := []models.Game{
		completedGame(2, awayID, 3, 17, 20, kickoff.Add(24*time.Hour)),
		upcoming,
		completedGame(1, homeID, awayID, 45, 3, kickoff),
		malformed,
		completedGame(3, homeID, 42, 10, 3, kickoff.Add(48*time.Hour)),
	}

	report, err := e.Replay(games)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Ignored)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, map[string]int{"missing_team": 1, "malformed_record": 1}, report.SkipCounts())

	require.Len(t, report.Updates, 2)
	assert.Equal(t, int64(1), report.Updates[0].GameID, "earliest game is applied first")
	assert.Equal(t, int64(2), report.Updates[1].GameID)
}

func TestReplayAbortsOnOrderingViolation(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())
	_, err := e.Replay([]models.Game{completedGame(1, homeID, awayID, 21, 14, kickoff)})
	require.NoError(t, err)

	report, err := e.Replay([]models.Game{completedGame(2, awayID, 3, 21, 14, kickoff.Add(-24*time.Hour))})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderingViolation))
	assert.Equal(t, 0, report.Processed)
}

func TestStandingsAndSnapshot(t *testing.T) {
	e := quietEngine(t, testTeams(), DefaultConfig())
	_, err := e.ProcessGame(completedGame(1, awayID, homeID, 35, 14, kickoff))
	require.NoError(t, err)

	standings := e.Standings()
	require.Len(t, standings, 3)
	assert.Equal(t, "Toledo", standings[0].Name)
	assert.Equal(t, 1, standings[0].GamesPlayed)

	snap := e.Ratings()
	r, ok := snap.RatingByName("Toledo")
	require.True(t, ok)
	assert.Equal(t, standings[0].Rating, r)
	assert.Equal(t, 3, snap.Len())

	// the snapshot does not follow later updates
	_, err = e.ProcessGame(completedGame(2, homeID, awayID, 50, 0, kickoff.Add(time.Hour)))
	require.NoError(t, err)
	again, _ := snap.RatingFor(awayID)
	assert.Equal(t, r, again)
}

func TestPointSpread(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 6.6, cfg.PointSpread(1600, 1500), 1e-9)
	assert.InDelta(t, 2.6, cfg.PointSpread(1500, 1500), 1e-9)
}
