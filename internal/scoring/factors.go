package scoring

import (
	"fmt"
	"math"

	"github.com/yourusername/ricks-picks/internal/models"
)

// weatherFactor scores kickoff conditions. A dome returns the flat bonus and nothing else.
func weatherFactor(cfg WeatherConfig, w models.Weather) models.FactorContribution {
	f := models.FactorContribution{Label: models.FactorWeather}
	if w.IsDome {
		f.Value = cfg.DomeBonus
		f.Notes = append(f.Notes, fmt.Sprintf("Dome: controlled conditions (%+.1f)", cfg.DomeBonus))
		return f
	}

	if w.TemperatureF != nil {
		t := *w.TemperatureF
		switch {
		case t < cfg.FreezingBelow:
			f.Value -= cfg.FreezingPenalty
			f.Notes = append(f.Notes, fmt.Sprintf("Freezing temperature %.0f°F (%+.1f)", t, -cfg.FreezingPenalty))
		case t < cfg.ColdBelow:
			f.Value -= cfg.ColdPenalty
			f.Notes = append(f.Notes, fmt.Sprintf("Cold temperature %.0f°F (%+.1f)", t, -cfg.ColdPenalty))
		case t > cfg.HotAbove:
			f.Value -= cfg.HotPenalty
			f.Notes = append(f.Notes, fmt.Sprintf("Hot temperature %.0f°F (%+.1f)", t, -cfg.HotPenalty))
		}
	}

	if w.WindSpeedMPH != nil {
		s := *w.WindSpeedMPH
		switch {
		case s > cfg.HighWindAbove:
			f.Value -= cfg.HighWindPenalty
			f.Notes = append(f.Notes, fmt.Sprintf("High wind %.0f mph (%+.1f)", s, -cfg.HighWindPenalty))
		case s > cfg.ModerateWindAbove:
			f.Value -= cfg.ModerateWindPenalty
			f.Notes = append(f.Notes, fmt.Sprintf("Moderate wind %.0f mph (%+.1f)", s, -cfg.ModerateWindPenalty))
		}
	}

	if w.HasPrecipitation() {
		f.Value -= cfg.PrecipitationPenalty
		f.Notes = append(f.Notes, fmt.Sprintf("Precipitation expected (%+.1f)", -cfg.PrecipitationPenalty))
	}

	return f
}

// conferenceFactor scores the conference power differential, home perspective
func conferenceFactor(cfg ConferenceConfig, power models.ConferenceSet, home, away models.Conference) models.FactorContribution {
	f := models.FactorContribution{Label: models.FactorConference}

	differential := cfg.PowerRatings[home] - cfg.PowerRatings[away]
	f.Value = differential * cfg.Scale

	switch {
	case math.Abs(differential) > cfg.MajorMismatch:
		f.Notes = append(f.Notes, fmt.Sprintf("Major conference mismatch: %s vs %s (%+.1f)", home, away, differential))
	case math.Abs(differential) > cfg.Advantage:
		f.Notes = append(f.Notes, fmt.Sprintf("Conference advantage: %s vs %s (%+.1f)", home, away, differential))
	}

	homePower, awayPower := power.Contains(home), power.Contains(away)
	switch {
	case homePower && !awayPower:
		f.Value += cfg.PowerBonus
		f.Notes = append(f.Notes, fmt.Sprintf("Power conference home side vs %s (%+.1f)", away, cfg.PowerBonus))
	case awayPower && !homePower:
		f.Value -= cfg.PowerBonus
		f.Notes = append(f.Notes, fmt.Sprintf("Power conference away side vs %s (%+.1f)", home, -cfg.PowerBonus))
	}

	return f
}

func homeFieldFactor(advantage float64, neutral bool) models.FactorContribution {
	if neutral {
		return models.FactorContribution{
			Label: models.FactorHomeField,
			Notes: []string{"Neutral site: no home field"},
		}
	}
	return models.FactorContribution{
		Label: models.FactorHomeField,
		Value: advantage,
		Notes: []string{fmt.Sprintf("Home field (%+.1f)", advantage)},
	}
}

// marketValueFactor rewards disagreement with the market once it reaches the minimum difference.
// base and implied are both positive-favors-home.
func marketValueFactor(cfg MarketConfig, base, implied float64) models.FactorContribution {
	f := models.FactorContribution{Label: models.FactorMarketValue}

	diff := base - implied
	magnitude := math.Abs(diff)
	if magnitude < cfg.MinDifference {
		return f
	}

	value := math.Min(magnitude*cfg.Scale, cfg.Cap)
	if diff > 0 {
		f.Value = value
		f.Notes = append(f.Notes, fmt.Sprintf("Market undervalues the home side by %.1f (%+.1f)", magnitude, value))
	} else {
		f.Value = -value
		f.Notes = append(f.Notes, fmt.Sprintf("Market overvalues the home side by %.1f (%+.1f)", magnitude, -value))
	}
	return f
}

// ratingEdgeFactor converts the rating gap into points. It is informational only.
func ratingEdgeFactor(cfg RatingEdgeConfig, home, away float64, neutral bool) models.FactorContribution {
	bonus := cfg.HomeFieldBonus
	if neutral {
		bonus = 0
	}
	points := (home + bonus - away) / cfg.PointsPerSpread
	return models.FactorContribution{
		Label:         models.FactorRatingEdge,
		Value:         points,
		Informational: true,
		Notes:         []string{fmt.Sprintf("Ratings %.0f vs %.0f imply %+.1f", home, away, points)},
	}
}
