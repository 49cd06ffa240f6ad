package scoring

import (
	"fmt"

	"github.com/yourusername/ricks-picks/internal/config"
	"github.com/yourusername/ricks-picks/internal/models"
)

// WeatherConfig holds temperature, wind and precipitation tiers
type WeatherConfig struct {
	DomeBonus            float64
	FreezingBelow        float64
	FreezingPenalty      float64
	ColdBelow            float64
	ColdPenalty          float64
	HotAbove             float64
	HotPenalty           float64
	HighWindAbove        float64
	HighWindPenalty      float64
	ModerateWindAbove    float64
	ModerateWindPenalty  float64
	PrecipitationPenalty float64
}

// ConferenceConfig holds the conference power table
type ConferenceConfig struct {
	PowerRatings     map[models.Conference]float64
	PowerConferences []models.Conference
	Scale            float64
	PowerBonus       float64
	MajorMismatch    float64
	Advantage        float64
}

// MarketConfig controls the market value factor and the play threshold
type MarketConfig struct {
	MinDifference float64
	Scale         float64
	Cap           float64
	PlayThreshold float64
}

// ConfidenceConfig sets the spread and factor-count thresholds per label
type ConfidenceConfig struct {
	HighSpread    float64
	HighFactors   int
	MediumSpread  float64
	MediumFactors int
}

// RatingEdgeConfig converts rating gaps to points for the informational edge
type RatingEdgeConfig struct {
	HomeFieldBonus  float64
	PointsPerSpread float64
}

// Config is the full set of scoring constants
type Config struct {
	Weather            WeatherConfig
	Conference         ConferenceConfig
	HomeFieldAdvantage float64
	Market             MarketConfig
	Confidence         ConfidenceConfig
	RatingEdge         RatingEdgeConfig
}

// DefaultPowerRatings returns the standard conference power table
func DefaultPowerRatings() map[models.Conference]float64 {
	return map[models.Conference]float64{
		models.ConferenceSEC:          5.7,
		models.ConferenceBigTen:       4.1,
		models.ConferenceBig12:        3.0,
		models.ConferenceACC:          2.9,
		models.ConferencePac12:        0.5,
		models.ConferenceMountainWest: -0.2,
		models.ConferenceAmerican:     -0.8,
		models.ConferenceSunBelt:      1.2,
		models.ConferenceUSA:          1.5,
		models.ConferenceMAC:          -1.1,
		models.ConferenceIndependents: -4.5,
	}
}

// DefaultConfig returns the canonical scoring constants
func DefaultConfig() Config {
	return Config{
		Weather: WeatherConfig{
			DomeBonus:            4.0,
			FreezingBelow:        32,
			FreezingPenalty:      2.5,
			ColdBelow:            40,
			ColdPenalty:          1.0,
			HotAbove:             85,
			HotPenalty:           0.5,
			HighWindAbove:        20,
			HighWindPenalty:      2.0,
			ModerateWindAbove:    15,
			ModerateWindPenalty:  1.0,
			PrecipitationPenalty: 1.5,
		},
		Conference: ConferenceConfig{
			PowerRatings:     DefaultPowerRatings(),
			PowerConferences: models.DefaultPowerConferences(),
			Scale:            0.3,
			PowerBonus:       1.5,
			MajorMismatch:    3,
			Advantage:        1,
		},
		HomeFieldAdvantage: 2.0,
		Market: MarketConfig{
			MinDifference: 3,
			Scale:         0.5,
			Cap:           4,
			PlayThreshold: 1.5,
		},
		Confidence: ConfidenceConfig{
			HighSpread:    6,
			HighFactors:   3,
			MediumSpread:  3,
			MediumFactors: 2,
		},
		RatingEdge: RatingEdgeConfig{
			HomeFieldBonus:  65,
			PointsPerSpread: 25,
		},
	}
}

// FromConfig builds scoring constants from the loaded application config.
// The rating section supplies the bonus used for the informational rating edge.
func FromConfig(cfg *config.ScoringConfig, ratingCfg *config.RatingConfig) Config {
	c := DefaultConfig()
	if cfg != nil {
		w := cfg.Weather
		c.Weather = WeatherConfig{
			DomeBonus:            w.DomeBonus,
			FreezingBelow:        w.FreezingBelow,
			FreezingPenalty:      w.FreezingPenalty,
			ColdBelow:            w.ColdBelow,
			ColdPenalty:          w.ColdPenalty,
			HotAbove:             w.HotAbove,
			HotPenalty:           w.HotPenalty,
			HighWindAbove:        w.HighWindAbove,
			HighWindPenalty:      w.HighWindPenalty,
			ModerateWindAbove:    w.ModerateWindAbove,
			ModerateWindPenalty:  w.ModerateWindPenalty,
			PrecipitationPenalty: w.PrecipitationPenalty,
		}
		if len(cfg.Conference.PowerRatings) > 0 {
			c.Conference.PowerRatings = make(map[models.Conference]float64, len(cfg.Conference.PowerRatings))
			for name, v := range cfg.Conference.PowerRatings {
				c.Conference.PowerRatings[models.ParseConference(name)] = v
			}
		}
		c.Conference.Scale = cfg.Conference.Scale
		c.Conference.PowerBonus = cfg.Conference.PowerBonus
		c.Conference.MajorMismatch = cfg.Conference.MajorMismatch
		c.Conference.Advantage = cfg.Conference.Advantage
		c.HomeFieldAdvantage = cfg.HomeFieldAdvantage
		c.Market = MarketConfig{
			MinDifference: cfg.Market.MinDifference,
			Scale:         cfg.Market.Scale,
			Cap:           cfg.Market.Cap,
			PlayThreshold: cfg.Market.PlayThreshold,
		}
		c.Confidence = ConfidenceConfig{
			HighSpread:    cfg.Confidence.HighSpread,
			HighFactors:   cfg.Confidence.HighFactors,
			MediumSpread:  cfg.Confidence.MediumSpread,
			MediumFactors: cfg.Confidence.MediumFactors,
		}
	}
	if ratingCfg != nil {
		c.RatingEdge.HomeFieldBonus = ratingCfg.HomeFieldBonus
		if ratingCfg.PointsPerSpread > 0 {
			c.RatingEdge.PointsPerSpread = ratingCfg.PointsPerSpread
		}
		if len(ratingCfg.PowerConferences) > 0 {
			c.Conference.PowerConferences = make([]models.Conference, 0, len(ratingCfg.PowerConferences))
			for _, name := range ratingCfg.PowerConferences {
				c.Conference.PowerConferences = append(c.Conference.PowerConferences, models.ParseConference(name))
			}
		}
	}
	return c
}

// Validate checks the constants
func (c Config) Validate() error {
	if c.Weather.FreezingBelow > c.Weather.ColdBelow {
		return fmt.Errorf("freezing threshold %v above cold threshold %v", c.Weather.FreezingBelow, c.Weather.ColdBelow)
	}
	if c.Weather.ModerateWindAbove > c.Weather.HighWindAbove {
		return fmt.Errorf("moderate wind threshold %v above high wind threshold %v", c.Weather.ModerateWindAbove, c.Weather.HighWindAbove)
	}
	if c.Market.Cap < 0 || c.Market.Scale < 0 {
		return fmt.Errorf("market scale and cap must be non-negative")
	}
	if c.Confidence.MediumSpread > c.Confidence.HighSpread {
		return fmt.Errorf("medium confidence spread %v above high spread %v", c.Confidence.MediumSpread, c.Confidence.HighSpread)
	}
	if c.RatingEdge.PointsPerSpread <= 0 {
		return fmt.Errorf("rating points per spread must be positive")
	}
	return nil
}
