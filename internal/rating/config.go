package rating

import (
	"fmt"

	"github.com/yourusername/ricks-picks/internal/config"
	"github.com/yourusername/ricks-picks/internal/models"
)

// Config holds the constants of the rating update
type Config struct {
	KFactor          float64
	HomeFieldBonus   float64
	UpperSeed        float64
	LowerSeed        float64
	PointsPerSpread  float64
	PowerConferences []models.Conference
}

// DefaultConfig returns the standard rating constants
func DefaultConfig() Config {
	return Config{
		KFactor:          32,
		HomeFieldBonus:   65,
		UpperSeed:        1550,
		LowerSeed:        1500,
		PointsPerSpread:  25,
		PowerConferences: models.DefaultPowerConferences(),
	}
}

// FromConfig builds an engine config from the loaded application config
func FromConfig(cfg *config.RatingConfig) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.KFactor = cfg.KFactor
	c.HomeFieldBonus = cfg.HomeFieldBonus
	c.UpperSeed = cfg.UpperSeed
	c.LowerSeed = cfg.LowerSeed
	if cfg.PointsPerSpread > 0 {
		c.PointsPerSpread = cfg.PointsPerSpread
	}
	if len(cfg.PowerConferences) > 0 {
		c.PowerConferences = make([]models.Conference, 0, len(cfg.PowerConferences))
		for _, name := range cfg.PowerConferences {
			c.PowerConferences = append(c.PowerConferences, models.ParseConference(name))
		}
	}
	return c
}

// Validate checks the constants are usable
func (c Config) Validate() error {
	if c.KFactor <= 0 {
		return fmt.Errorf("k factor must be positive, got %v", c.KFactor)
	}
	if c.HomeFieldBonus < 0 {
		return fmt.Errorf("home field bonus cannot be negative, got %v", c.HomeFieldBonus)
	}
	if c.LowerSeed > c.UpperSeed {
		return fmt.Errorf("lower seed %v exceeds upper seed %v", c.LowerSeed, c.UpperSeed)
	}
	if c.PointsPerSpread <= 0 {
		return fmt.Errorf("points per spread must be positive, got %v", c.PointsPerSpread)
	}
	return nil
}
