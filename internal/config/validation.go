// Package config provides configuration management for the Rick's Picks application.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// knownConferences mirrors the conferences the scoring model understands
var knownConferences = []string{
	"SEC",
	"Big Ten",
	"Big 12",
	"ACC",
	"Pac-12",
	"Mountain West",
	"American Athletic",
	"Sun Belt",
	"Conference USA",
	"Mid-American",
	"FBS Independents",
}

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("conference", validateConference)
	v.RegisterValidation("datetime", validateDateTime)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateConference accepts known conference names case-insensitively.
// Viper lowercases map keys, so the power table arrives lowercased.
func validateConference(fl validator.FieldLevel) bool {
	return isKnownConference(fl.Field().String())
}

func isKnownConference(name string) bool {
	for _, known := range knownConferences {
		if strings.EqualFold(known, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// validateDateTime validates datetime strings
func validateDateTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate backtest date range
	startDate, err := time.Parse(dateLayout, cfg.Backtest.StartDate)
	if err != nil {
		return fmt.Errorf("invalid backtest start_date format: %w", err)
	}

	endDate, err := time.Parse(dateLayout, cfg.Backtest.EndDate)
	if err != nil {
		return fmt.Errorf("invalid backtest end_date format: %w", err)
	}

	if !startDate.Before(endDate) {
		return fmt.Errorf("backtest start_date must be before end_date")
	}

	if cfg.Rating.LowerSeed > cfg.Rating.UpperSeed {
		return fmt.Errorf("rating lower_seed cannot exceed upper_seed")
	}

	// Every power conference needs an entry in the power table
	for _, conf := range cfg.Rating.PowerConferences {
		if !hasPowerRating(cfg.Scoring.Conference.PowerRatings, conf) {
			return fmt.Errorf("power conference %q has no entry in scoring.conference.power_ratings", conf)
		}
	}

	w := cfg.Scoring.Weather
	if w.FreezingBelow > w.ColdBelow {
		return fmt.Errorf("scoring.weather freezing_below cannot exceed cold_below")
	}
	if w.ModerateWindAbove > w.HighWindAbove {
		return fmt.Errorf("scoring.weather moderate_wind_above cannot exceed high_wind_above")
	}

	if cfg.Scoring.Confidence.MediumSpread > cfg.Scoring.Confidence.HighSpread {
		return fmt.Errorf("scoring.confidence medium_spread cannot exceed high_spread")
	}

	// Validate production environment requirements
	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	return nil
}

func hasPowerRating(table map[string]float64, conf string) bool {
	for name := range table {
		if strings.EqualFold(name, conf) {
			return true
		}
	}
	return false
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "conference":
			errMsg += fmt.Sprintf("- Field '%s' has unknown conference '%v'\n", field, value)
		case "datetime":
			errMsg += fmt.Sprintf("- Field '%s' must be a date formatted YYYY-MM-DD, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production needs a real API key
		if cfg.DataSource.APIKey == "" || isTestCredential(cfg.DataSource.APIKey) {
			return fmt.Errorf("production environment requires a real data source API key")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
