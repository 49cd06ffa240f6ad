// Package export writes standings, rating history and predictions as CSV.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/rating"
)

type standingRow struct {
	Rank        int     `csv:"rank"`
	TeamID      int64   `csv:"team_id"`
	Team        string  `csv:"team"`
	Conference  string  `csv:"conference"`
	Rating      float64 `csv:"rating"`
	GamesPlayed int     `csv:"games_played"`
}

type historyRow struct {
	TeamID   int64   `csv:"team_id"`
	Sequence int     `csv:"sequence"`
	GameID   string  `csv:"game_id"`
	AsOf     string  `csv:"as_of"`
	Rating   float64 `csv:"rating"`
	Delta    float64 `csv:"delta"`
}

type predictionRow struct {
	GameID          int64   `csv:"game_id"`
	AwayTeam        string  `csv:"away_team"`
	HomeTeam        string  `csv:"home_team"`
	MarketSpread    string  `csv:"market_spread"`
	PredictedSpread float64 `csv:"predicted_spread"`
	Edge            string  `csv:"edge"`
	RatingSpread    string  `csv:"rating_spread"`
	Confidence      string  `csv:"confidence"`
	Recommendation  string  `csv:"recommendation"`
	RecommendedTeam string  `csv:"recommended_team"`
	PredictedAt     string  `csv:"predicted_at"`
}

// WriteStandings writes the ratings table in the order given, ranked from one
func WriteStandings(w io.Writer, standings []rating.TeamRating) error {
	rows := make([]*standingRow, 0, len(standings))
	for i, s := range standings {
		rows = append(rows, &standingRow{
			Rank:        i + 1,
			TeamID:      s.TeamID,
			Team:        s.Name,
			Conference:  s.Conference.String(),
			Rating:      round(s.Rating, 2),
			GamesPlayed: s.GamesPlayed,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write standings: %w", err)
	}
	return nil
}

// WriteHistory writes one row per rating history entry. Seed rows carry no game id.
func WriteHistory(w io.Writer, history []models.RatingSnapshot) error {
	rows := make([]*historyRow, 0, len(history))
	for _, h := range history {
		row := &historyRow{
			TeamID:   h.TeamID,
			Sequence: h.Sequence,
			AsOf:     formatTime(h.AsOf),
			Rating:   round(h.Rating, 2),
			Delta:    round(h.Delta, 2),
		}
		if h.GameID != nil {
			row.GameID = strconv.FormatInt(*h.GameID, 10)
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write rating history: %w", err)
	}
	return nil
}

// WritePredictions writes one row per prediction. Missing lines are left blank.
func WritePredictions(w io.Writer, predictions []models.Prediction) error {
	rows := make([]*predictionRow, 0, len(predictions))
	for _, p := range predictions {
		rows = append(rows, &predictionRow{
			GameID:          p.GameID,
			AwayTeam:        p.AwayTeam,
			HomeTeam:        p.HomeTeam,
			MarketSpread:    optional(p.MarketSpread),
			PredictedSpread: round(p.PredictedSpread, 3),
			Edge:            optional(p.Edge),
			RatingSpread:    optional(p.RatingSpread),
			Confidence:      string(p.Confidence),
			Recommendation:  string(p.Recommendation),
			RecommendedTeam: p.RecommendedTeam,
			PredictedAt:     formatTime(p.PredictedAt),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	return nil
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(round(*v, 3), 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
