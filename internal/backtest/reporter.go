package backtest

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// GenerateConsoleReport formats metrics for terminal output
func GenerateConsoleReport(result AggregatedResult) string {
	m := result.Metrics
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Period: %s to %s\n", m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Games Evaluated: %d\n", m.GamesEvaluated))
	builder.WriteString(fmt.Sprintf("ATS Record: %d-%d-%d (%.1f%%)\n", m.ATS.Wins, m.ATS.Losses, m.ATS.Pushes, m.ATS.Percentage))
	builder.WriteString(fmt.Sprintf("Break-even: %.1f%%\n", m.BreakEvenPct))
	builder.WriteString(fmt.Sprintf("P-value: %.4f\n", m.PValue))
	builder.WriteString(fmt.Sprintf("Model MAE: %.2f  Market MAE: %.2f (%+.1f%%)\n", m.ModelMAE, m.MarketMAE, m.VsMarketPct))
	builder.WriteString(fmt.Sprintf("Correlation: %.3f  Market: %.3f\n", m.Correlation, m.MarketCorrelation))
	if m.EloGames > 0 {
		builder.WriteString(fmt.Sprintf("ELO Straight-up: %.1f%% of %d games\n", m.EloAccuracy, m.EloGames))
	}

	builder.WriteString("\nBy Confidence\n")
	for _, tier := range m.ConfidenceTiers() {
		r := m.ByConfidence[tier]
		builder.WriteString(fmt.Sprintf("  %-7s %d-%d-%d (%.1f%%)\n", tier, r.Wins, r.Losses, r.Pushes, r.Percentage))
	}
	builder.WriteString(fmt.Sprintf("  Weather  %d-%d-%d (%.1f%%)\n", m.WeatherGames.Wins, m.WeatherGames.Losses, m.WeatherGames.Pushes, m.WeatherGames.Percentage))
	builder.WriteString(fmt.Sprintf("  Conf     %d-%d-%d (%.1f%%)\n", m.ConferenceGames.Wins, m.ConferenceGames.Losses, m.ConferenceGames.Pushes, m.ConferenceGames.Percentage))

	builder.WriteString(fmt.Sprintf("\nPlays: %d-%d-%d  Units: %+.2f  Max Drawdown: %.2f\n",
		m.Plays.Wins, m.Plays.Losses, m.Plays.Pushes, m.UnitsWon, m.MaxDrawdownUnits))

	if result.MonteCarlo.SampleSize > 0 {
		ci := result.MonteCarlo.ConfidenceIntervals[formatPercent(0.95)]
		builder.WriteString(fmt.Sprintf("Bootstrap: mean %.1f%%, 95%% CI [%.1f, %.1f], P(>break-even) %.2f\n",
			result.MonteCarlo.MeanATS, ci[0], ci[1], result.MonteCarlo.ProbabilityAboveBreakEven))
	}
	if len(result.WalkForward.Windows) > 0 {
		builder.WriteString(fmt.Sprintf("Seasons above break-even: %.0f%%\n", result.WalkForward.ConsistencyScore*100))
	}
	builder.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Recommendation))
	return builder.String()
}

// GenerateHTMLReport creates a simple HTML report
func GenerateHTMLReport(result AggregatedResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	m := result.Metrics

	var rows strings.Builder
	for _, w := range result.WalkForward.Windows {
		rows.WriteString(fmt.Sprintf("<tr><td>%d</td><td>%d-%d-%d</td><td>%.1f%%</td><td>%.2f</td></tr>\n",
			w.Season, w.Metrics.ATS.Wins, w.Metrics.ATS.Losses, w.Metrics.ATS.Pushes,
			w.Metrics.ATS.Percentage, w.Metrics.ModelMAE))
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Backtest Report</title></head>
<body>
<h1>Backtest Report</h1>
<p><strong>Recommendation:</strong> %s</p>
<p><strong>Games Evaluated:</strong> %d</p>
<p><strong>ATS Record:</strong> %d-%d-%d (%.1f%%)</p>
<p><strong>P-value:</strong> %.4f</p>
<p><strong>Model MAE:</strong> %.2f</p>
<p><strong>Market MAE:</strong> %.2f</p>
<p><strong>Units:</strong> %+.2f</p>
<table>
<tr><th>Season</th><th>ATS</th><th>Pct</th><th>MAE</th></tr>
%s</table>
</body>
</html>`,
		html.EscapeString(result.Recommendation),
		m.GamesEvaluated,
		m.ATS.Wins, m.ATS.Losses, m.ATS.Pushes, m.ATS.Percentage,
		m.PValue,
		m.ModelMAE,
		m.MarketMAE,
		m.UnitsWon,
		rows.String(),
	)

	return os.WriteFile(outputPath, []byte(page), 0o644)
}

type summaryRow struct {
	Metric string `csv:"metric"`
	Value  string `csv:"value"`
}

// GenerateCSVExport exports key metrics for spreadsheets
func GenerateCSVExport(result AggregatedResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	m := result.Metrics
	rows := []*summaryRow{
		{"games_evaluated", fmt.Sprintf("%d", m.GamesEvaluated)},
		{"ats_wins", fmt.Sprintf("%d", m.ATS.Wins)},
		{"ats_losses", fmt.Sprintf("%d", m.ATS.Losses)},
		{"ats_pushes", fmt.Sprintf("%d", m.ATS.Pushes)},
		{"ats_percentage", fmt.Sprintf("%.4f", m.ATS.Percentage)},
		{"p_value", fmt.Sprintf("%.4f", m.PValue)},
		{"model_mae", fmt.Sprintf("%.4f", m.ModelMAE)},
		{"market_mae", fmt.Sprintf("%.4f", m.MarketMAE)},
		{"correlation", fmt.Sprintf("%.4f", m.Correlation)},
		{"units_won", fmt.Sprintf("%.4f", m.UnitsWon)},
		{"recommendation", result.Recommendation},
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return os.WriteFile(outputPath, []byte(out), 0o644)
}

type outcomeRow struct {
	GameID          int64   `csv:"game_id"`
	Season          int     `csv:"season"`
	Week            int     `csv:"week"`
	StartDate       string  `csv:"start_date"`
	HomeTeam        string  `csv:"home_team"`
	AwayTeam        string  `csv:"away_team"`
	MarketSpread    float64 `csv:"market_spread"`
	PredictedSpread float64 `csv:"predicted_spread"`
	ActualMargin    int     `csv:"actual_margin"`
	Pick            string  `csv:"pick"`
	Result          string  `csv:"result"`
	Confidence      string  `csv:"confidence"`
	Recommendation  string  `csv:"recommendation"`
}

// GenerateOutcomeCSV writes one row per evaluated game
func GenerateOutcomeCSV(outcomes []GameOutcome, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	rows := make([]*outcomeRow, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, &outcomeRow{
			GameID:          o.GameID,
			Season:          o.Season,
			Week:            o.Week,
			StartDate:       o.StartDate.Format("2006-01-02"),
			HomeTeam:        o.HomeTeam,
			AwayTeam:        o.AwayTeam,
			MarketSpread:    o.MarketSpread,
			PredictedSpread: o.PredictedSpread,
			ActualMargin:    o.ActualMargin,
			Pick:            string(o.Pick),
			Result:          string(o.Result),
			Confidence:      string(o.Confidence),
			Recommendation:  string(o.Recommendation),
		})
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

// WriteReports writes the summary, outcome, equity and HTML reports under dir
func WriteReports(result AggregatedResult, dir string) error {
	if dir == "" {
		return nil
	}
	if err := GenerateCSVExport(result, filepath.Join(dir, "summary.csv")); err != nil {
		return err
	}
	if err := GenerateOutcomeCSV(result.Outcomes, filepath.Join(dir, "outcomes.csv")); err != nil {
		return err
	}
	equity, err := BuildEquityCurve(result.Outcomes).ToCSV()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "equity.csv"), []byte(equity), 0o644); err != nil {
		return err
	}
	return GenerateHTMLReport(result, filepath.Join(dir, "report.html"))
}
