package backtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() AggregatedResult {
	outcomes := seasonOutcomes(2023, 7, 3)
	outcomes[0].HomeTeam = "Texas A&M"
	m := CalculateMetrics(outcomes, 52.4)
	return AggregateResults(outcomes, m, MonteCarloResult{}, RunWalkForward(outcomes, 52.4))
}

func TestGenerateConsoleReport(t *testing.T) {
	report := GenerateConsoleReport(testResult())
	assert.Contains(t, report, "ATS Record: 7-3-0 (70.0%)")
	assert.Contains(t, report, "Recommendation: ")
	assert.Contains(t, report, "Low")
}

func TestWriteReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, WriteReports(testResult(), dir))

	summary, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "metric,value")
	assert.Contains(t, string(summary), "ats_wins,7")

	outcomes, err := os.ReadFile(filepath.Join(dir, "outcomes.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(outcomes), "game_id,season,week,start_date")
	assert.Contains(t, string(outcomes), "Texas A&M")

	page, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<td>2023</td>")

	_, err = os.Stat(filepath.Join(dir, "equity.csv"))
	assert.NoError(t, err)
}

func TestWriteReportsWithoutDirectory(t *testing.T) {
	assert.NoError(t, WriteReports(testResult(), ""))
}
