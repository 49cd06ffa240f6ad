// Package config provides configuration management for the Rick's Picks application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	// Create a new viper instance
	v := viper.New()
	v.SetConfigType("yaml")

	// Read the expanded configuration
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set environment variable prefix
	v.SetEnvPrefix("RICKS_PICKS")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	// Set configuration file path with default
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("RICKS_PICKS")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set some reasonable defaults
	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads specific configuration values from environment variables
func ReloadFromEnv(cfg *Config) error {
	v := viper.New()

	// Set environment variable prefix
	v.SetEnvPrefix("RICKS_PICKS")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Check for specific environment variables and update the config
	if envPath := os.Getenv("RICKS_PICKS_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}

// setDefaults registers the canonical rating and scoring constants
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ricks-picks")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.workers", 4)

	v.SetDefault("rating.k_factor", 32.0)
	v.SetDefault("rating.home_field_bonus", 65.0)
	v.SetDefault("rating.upper_seed", 1550.0)
	v.SetDefault("rating.lower_seed", 1500.0)
	v.SetDefault("rating.points_per_spread", 25.0)
	v.SetDefault("rating.power_conferences", []string{"SEC", "Big Ten", "Big 12", "ACC", "Pac-12"})

	v.SetDefault("scoring.weather.dome_bonus", 4.0)
	v.SetDefault("scoring.weather.freezing_below", 32.0)
	v.SetDefault("scoring.weather.freezing_penalty", 2.5)
	v.SetDefault("scoring.weather.cold_below", 40.0)
	v.SetDefault("scoring.weather.cold_penalty", 1.0)
	v.SetDefault("scoring.weather.hot_above", 85.0)
	v.SetDefault("scoring.weather.hot_penalty", 0.5)
	v.SetDefault("scoring.weather.high_wind_above", 20.0)
	v.SetDefault("scoring.weather.high_wind_penalty", 2.0)
	v.SetDefault("scoring.weather.moderate_wind_above", 15.0)
	v.SetDefault("scoring.weather.moderate_wind_penalty", 1.0)
	v.SetDefault("scoring.weather.precipitation_penalty", 1.5)
	v.SetDefault("scoring.conference.power_ratings", map[string]float64{
		"SEC":               5.7,
		"Big Ten":           4.1,
		"Big 12":            3.0,
		"ACC":               2.9,
		"Pac-12":            0.5,
		"Mountain West":     -0.2,
		"American Athletic": -0.8,
		"Sun Belt":          1.2,
		"Conference USA":    1.5,
		"Mid-American":      -1.1,
		"FBS Independents":  -4.5,
	})
	v.SetDefault("scoring.conference.scale", 0.3)
	v.SetDefault("scoring.conference.power_bonus", 1.5)
	v.SetDefault("scoring.conference.major_mismatch", 3.0)
	v.SetDefault("scoring.conference.advantage", 1.0)
	v.SetDefault("scoring.home_field_advantage", 2.0)
	v.SetDefault("scoring.market.min_difference", 3.0)
	v.SetDefault("scoring.market.scale", 0.5)
	v.SetDefault("scoring.market.cap", 4.0)
	v.SetDefault("scoring.market.play_threshold", 1.5)
	v.SetDefault("scoring.confidence.high_spread", 6.0)
	v.SetDefault("scoring.confidence.high_factors", 3)
	v.SetDefault("scoring.confidence.medium_spread", 3.0)
	v.SetDefault("scoring.confidence.medium_factors", 2)

	v.SetDefault("data_source.name", "cfbd")
	v.SetDefault("data_source.base_url", "https://api.collegefootballdata.com")
	v.SetDefault("data_source.rate_limit", 2.0)
	v.SetDefault("data_source.burst", 1)
	v.SetDefault("data_source.retry_max", 3)
	v.SetDefault("data_source.timeout_seconds", 30)
	v.SetDefault("data_source.preferred_provider", "consensus")
	v.SetDefault("data_source.season_type", "regular")

	v.SetDefault("backtest.break_even_pct", 52.4)
	v.SetDefault("backtest.sample_size", 1000)
	v.SetDefault("backtest.bootstrap_iterations", 1000)

	v.SetDefault("schedule.ingest", "0 6 * * 1")
	v.SetDefault("schedule.ratings", "30 6 * * 1")
	v.SetDefault("schedule.prediction", "0 7 * * 1-6")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("cache.prediction_ttl_seconds", 3600)
	v.SetDefault("cache.cleanup_seconds", 600)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
	v.SetDefault("tracing.sampling_rate", 0.05)
}
