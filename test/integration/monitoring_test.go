//go:build integration

package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/repository"
	"github.com/yourusername/ricks-picks/internal/service"
	"github.com/yourusername/ricks-picks/internal/tracing"
)

func jsonEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func score(v int) *int { return &v }

// TestObservabilityIntegration replays a small slate and checks the logs, counters and trace wrapper together
func TestObservabilityIntegration(t *testing.T) {
	metrics.InitRegistry()

	appLog := logrus.New()
	logBuf := &bytes.Buffer{}
	appLog.SetOutput(logBuf)
	appLog.SetFormatter(&logrus.JSONFormatter{})
	appLog.SetLevel(logrus.DebugLevel)

	require.NoError(t, tracing.Initialize(tracing.Config{ServiceName: "ricks-picks", Enabled: false}, appLog))

	teams := []models.Team{
		{ID: 333, Name: "Alabama", Conference: models.ConferenceSEC},
		{ID: 2567, Name: "SMU", Conference: models.ConferenceAmerican},
	}
	kickoff := time.Date(2023, 9, 2, 16, 0, 0, 0, time.UTC)
	games := []models.Game{
		{ID: 1, Season: 2023, Week: 1, StartDate: kickoff, Completed: true,
			HomeTeamID: 333, AwayTeamID: 2567, HomeTeam: "Alabama", AwayTeam: "SMU",
			HomeScore: score(42), AwayScore: score(10)},
		{ID: 2, Season: 2023, Week: 2, StartDate: kickoff.AddDate(0, 0, 7), Completed: true,
			HomeTeamID: 333, AwayTeamID: 9999, HomeTeam: "Alabama", AwayTeam: "Unknown",
			HomeScore: score(35), AwayScore: score(3)},
	}

	processed := testutil.ToFloat64(metrics.GamesProcessedTotal)
	missing := testutil.ToFloat64(metrics.GamesSkippedTotal.WithLabelValues("missing_team"))

	svc := service.NewRatingService(&repository.Repositories{}, nil, rating.DefaultConfig(), appLog)
	err := tracing.Trace(context.Background(), "replay", func(ctx context.Context) error {
		tracing.AddAnnotation(ctx, "games", len(games))
		_, err := svc.Replay(teams, games)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, processed+1, testutil.ToFloat64(metrics.GamesProcessedTotal))
	assert.Equal(t, missing+1, testutil.ToFloat64(metrics.GamesSkippedTotal.WithLabelValues("missing_team")))

	var messages []string
	for _, entry := range jsonEntries(t, logBuf) {
		messages = append(messages, entry["msg"].(string))
		if entry["msg"] == "Game skipped during rating replay" {
			assert.Equal(t, "missing_team", entry["reason"])
			assert.EqualValues(t, 2, entry["game_id"])
		}
	}
	assert.Contains(t, messages, "Rating replay started")
	assert.Contains(t, messages, "Game skipped during rating replay")
	assert.Contains(t, messages, "Rating replay completed")

	standings := svc.Standings()
	require.Len(t, standings, 2)
	assert.Equal(t, "Alabama", standings[0].Name)
}

// TestMetricsRegistryRace records from many goroutines while the registry is scraped
func TestMetricsRegistryRace(t *testing.T) {
	metrics.InitRegistry()
	before := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("High"))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			metrics.RecordPrediction("High", "take_home", float64(idx%10))
			metrics.RecordCacheLookup(idx%2 == 0)
			_, _ = metrics.GetRegistry().Gather()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, before+100, testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("High")))
}
