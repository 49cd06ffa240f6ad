// Package config provides configuration management for the Rick's Picks application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Rating     RatingConfig     `mapstructure:"rating" validate:"required"`
	Scoring    ScoringConfig    `mapstructure:"scoring" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Workers     int    `mapstructure:"workers" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// RatingConfig holds the rating engine constants
type RatingConfig struct {
	KFactor          float64  `mapstructure:"k_factor" validate:"required,gt=0"`
	HomeFieldBonus   float64  `mapstructure:"home_field_bonus" validate:"gte=0"`
	UpperSeed        float64  `mapstructure:"upper_seed" validate:"required,gt=0"`
	LowerSeed        float64  `mapstructure:"lower_seed" validate:"required,gt=0"`
	PointsPerSpread  float64  `mapstructure:"points_per_spread" validate:"gte=0"`
	PowerConferences []string `mapstructure:"power_conferences" validate:"required,min=1,dive,conference"`
}

// ScoringConfig holds the factor model constants
type ScoringConfig struct {
	Weather            WeatherScoringConfig    `mapstructure:"weather"`
	Conference         ConferenceScoringConfig `mapstructure:"conference"`
	HomeFieldAdvantage float64                 `mapstructure:"home_field_advantage" validate:"gte=0"`
	Market             MarketScoringConfig     `mapstructure:"market"`
	Confidence         ConfidenceScoringConfig `mapstructure:"confidence"`
}

// WeatherScoringConfig holds weather tiers
type WeatherScoringConfig struct {
	DomeBonus            float64 `mapstructure:"dome_bonus"`
	FreezingBelow        float64 `mapstructure:"freezing_below"`
	FreezingPenalty      float64 `mapstructure:"freezing_penalty" validate:"gte=0"`
	ColdBelow            float64 `mapstructure:"cold_below"`
	ColdPenalty          float64 `mapstructure:"cold_penalty" validate:"gte=0"`
	HotAbove             float64 `mapstructure:"hot_above"`
	HotPenalty           float64 `mapstructure:"hot_penalty" validate:"gte=0"`
	HighWindAbove        float64 `mapstructure:"high_wind_above" validate:"gte=0"`
	HighWindPenalty      float64 `mapstructure:"high_wind_penalty" validate:"gte=0"`
	ModerateWindAbove    float64 `mapstructure:"moderate_wind_above" validate:"gte=0"`
	ModerateWindPenalty  float64 `mapstructure:"moderate_wind_penalty" validate:"gte=0"`
	PrecipitationPenalty float64 `mapstructure:"precipitation_penalty" validate:"gte=0"`
}

// ConferenceScoringConfig holds the conference power table
type ConferenceScoringConfig struct {
	PowerRatings  map[string]float64 `mapstructure:"power_ratings" validate:"required,min=1,dive,keys,conference,endkeys"`
	Scale         float64            `mapstructure:"scale" validate:"gte=0"`
	PowerBonus    float64            `mapstructure:"power_bonus" validate:"gte=0"`
	MajorMismatch float64            `mapstructure:"major_mismatch" validate:"gte=0"`
	Advantage     float64            `mapstructure:"advantage" validate:"gte=0"`
}

// MarketScoringConfig holds market value parameters
type MarketScoringConfig struct {
	MinDifference float64 `mapstructure:"min_difference" validate:"gte=0"`
	Scale         float64 `mapstructure:"scale" validate:"gte=0"`
	Cap           float64 `mapstructure:"cap" validate:"gte=0"`
	PlayThreshold float64 `mapstructure:"play_threshold" validate:"gte=0"`
}

// ConfidenceScoringConfig holds confidence thresholds
type ConfidenceScoringConfig struct {
	HighSpread    float64 `mapstructure:"high_spread" validate:"gte=0"`
	HighFactors   int     `mapstructure:"high_factors" validate:"gte=0"`
	MediumSpread  float64 `mapstructure:"medium_spread" validate:"gte=0"`
	MediumFactors int     `mapstructure:"medium_factors" validate:"gte=0"`
}

// DataSourceConfig represents the CollegeFootballData API configuration
type DataSourceConfig struct {
	Name              string  `mapstructure:"name" validate:"required"`
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	PreferredProvider string  `mapstructure:"preferred_provider"`
	SeasonType        string  `mapstructure:"season_type" validate:"omitempty,oneof=regular postseason both"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate     string  `mapstructure:"start_date" validate:"required,datetime"`
	EndDate       string  `mapstructure:"end_date" validate:"required,datetime"`
	Seasons       []int   `mapstructure:"seasons"`
	SampleSize    int     `mapstructure:"sample_size" validate:"gte=0"`
	BreakEvenPct  float64 `mapstructure:"break_even_pct" validate:"required,gt=0,lt=100"`
	MinConfidence string  `mapstructure:"min_confidence" validate:"omitempty,oneof=Low Medium High"`
	OutputPath    string  `mapstructure:"output_path"`
	Bootstrap     int     `mapstructure:"bootstrap_iterations" validate:"gte=0"`
	Seed          int64   `mapstructure:"seed"`
}

// ScheduleConfig holds cron expressions for recurring jobs
type ScheduleConfig struct {
	Ingest     string `mapstructure:"ingest"`
	Ratings    string `mapstructure:"ratings"`
	Prediction string `mapstructure:"prediction"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// CacheConfig controls the prediction cache
type CacheConfig struct {
	PredictionTTLSeconds int `mapstructure:"prediction_ttl_seconds" validate:"gte=0"`
	CleanupSeconds       int `mapstructure:"cleanup_seconds" validate:"gte=0"`
}

// SecretsConfig points at the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// TracingConfig enables AWS X-Ray segments around jobs and data source calls
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DataSourceTimeout returns the HTTP timeout for the data source
func (c *Config) DataSourceTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// PredictionTTL returns how long cached predictions stay valid
func (c *Config) PredictionTTL() time.Duration {
	return time.Duration(c.Cache.PredictionTTLSeconds) * time.Second
}
