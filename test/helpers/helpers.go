package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/datasource"
)

// APIKey is the bearer token MockCFBDServer accepts
const APIKey = "test-key"

// WeekFixture is one week of provider payloads
type WeekFixture struct {
	Games    []datasource.GameData
	Lines    []datasource.GameLines
	Weather  []datasource.WeatherData
	Rankings []datasource.Ranking
}

// SeasonFixture is a season of provider payloads keyed by week
type SeasonFixture struct {
	Season int
	Teams  []datasource.TeamData
	Weeks  map[int]WeekFixture
}

// fixtureTeam carries the strength used to generate deterministic results
type fixtureTeam struct {
	data     datasource.TeamData
	strength int
}

var fixtureTeams = []fixtureTeam{
	{datasource.TeamData{ID: 333, School: "Alabama", Conference: "SEC"}, 24},
	{datasource.TeamData{ID: 61, School: "Georgia", Conference: "SEC"}, 21},
	{datasource.TeamData{ID: 2567, School: "SMU", Conference: "American Athletic"}, 10},
	{datasource.TeamData{ID: 2006, School: "Akron", Conference: "Mid-American"}, 0},
}

// GenerateSeason builds completed weeks ending before now plus one upcoming week.
// Lines are two thirds of the final margin, so the winner covers every game.
func GenerateSeason(completedWeeks int, now time.Time) SeasonFixture {
	first := now.AddDate(0, 0, -7*completedWeeks-1).Truncate(time.Hour)
	fixture := SeasonFixture{
		Season: first.Year(),
		Weeks:  make(map[int]WeekFixture),
	}
	for _, t := range fixtureTeams {
		fixture.Teams = append(fixture.Teams, t.data)
	}

	for week := 1; week <= completedWeeks+1; week++ {
		kickoff := first.AddDate(0, 0, 7*(week-1))
		completed := week <= completedWeeks
		if !completed {
			kickoff = now.Add(72 * time.Hour).Truncate(time.Hour)
		}
		fixture.Weeks[week] = generateWeek(fixture.Season, week, kickoff, completed)
	}
	return fixture
}

// generateWeek pairs the teams differently each week, alternating home sides
func generateWeek(season, week int, kickoff time.Time, completed bool) WeekFixture {
	pairings := [][2]int{{0, 1}, {2, 3}, {0, 2}, {1, 3}, {0, 3}, {1, 2}}
	var wf WeekFixture
	ranks := []datasource.RankedTeam{{Rank: 1, School: "Alabama"}, {Rank: 3, School: "Georgia"}}
	wf.Rankings = []datasource.Ranking{{
		Season: season, SeasonType: "regular", Week: week,
		Polls: []datasource.Poll{{Poll: "AP Top 25", Ranks: ranks}},
	}}

	for i := 0; i < 2; i++ {
		pair := pairings[(2*(week-1)+i)%len(pairings)]
		home, away := fixtureTeams[pair[0]], fixtureTeams[pair[1]]
		if week%2 == 0 {
			home, away = away, home
		}
		id := int64(season*1000 + week*10 + i)

		homeConf, awayConf := home.data.Conference, away.data.Conference
		margin := home.strength - away.strength + 4
		game := datasource.GameData{
			ID: id, Season: season, Week: week, SeasonType: "regular",
			StartDate: kickoff.Add(time.Duration(i) * 3 * time.Hour), Completed: completed,
			ConferenceGame: homeConf == awayConf, Venue: home.data.School + " Stadium",
			HomeID: home.data.ID, HomeTeam: home.data.School, HomeConference: &homeConf,
			AwayID: away.data.ID, AwayTeam: away.data.School, AwayConference: &awayConf,
		}
		if completed {
			homePts, awayPts := 20, 20
			if margin >= 0 {
				homePts += margin
			} else {
				awayPts -= margin
			}
			game.HomePoints, game.AwayPoints = &homePts, &awayPts
		}
		wf.Games = append(wf.Games, game)

		spread := decimal.NewFromInt(int64(-margin * 2)).Div(decimal.NewFromInt(3)).Round(0).Add(decimal.NewFromFloat(0.5))
		wf.Lines = append(wf.Lines, datasource.GameLines{
			ID: id, HomeTeam: home.data.School, AwayTeam: away.data.School,
			Lines: []datasource.ProviderLine{{
				Provider:  "consensus",
				Spread:    decimal.NewNullDecimal(spread),
				OverUnder: decimal.NewNullDecimal(decimal.NewFromFloat(51.5)),
			}},
		})

		temp, wind := 61.0, 18.0
		wf.Weather = append(wf.Weather, datasource.WeatherData{ID: id, Temperature: &temp, WindSpeed: &wind})
	}
	return wf
}

// MockCFBDServer serves a SeasonFixture on the CollegeFootballData paths
func MockCFBDServer(t *testing.T, fixture SeasonFixture) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+APIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("year") != strconv.Itoa(fixture.Season) {
			writeJSON(w, []struct{}{})
			return
		}
		week, _ := strconv.Atoi(r.URL.Query().Get("week"))
		wf := fixture.Weeks[week]

		switch r.URL.Path {
		case "/teams/fbs":
			writeJSON(w, fixture.Teams)
		case "/games":
			writeJSON(w, wf.Games)
		case "/lines":
			writeJSON(w, wf.Lines)
		case "/games/weather":
			writeJSON(w, wf.Weather)
		case "/rankings":
			writeJSON(w, wf.Rankings)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode fixture: %v", err), http.StatusInternalServerError)
	}
}

// QuietLogger returns a logger that discards output
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
