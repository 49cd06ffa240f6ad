package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/models"
)

// DataValidator validates games and teams before they are stored
type DataValidator struct {
	validate *validator.Validate
	logger   logrus.FieldLogger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger logrus.FieldLogger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger,
	}
}

// ValidateGame validates game data for required fields and constraints
func (v *DataValidator) ValidateGame(game *models.Game) []string {
	var errors []string

	if err := v.validate.Struct(game); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errors = append(errors, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			errors = append(errors, err.Error())
		}
	}

	if game.HomeTeamID != 0 && game.HomeTeamID == game.AwayTeamID {
		errors = append(errors, "home and away team are the same")
	}
	if game.HomeTeam == "" || game.AwayTeam == "" {
		errors = append(errors, "team names are required")
	}

	if game.HomeScore != nil && *game.HomeScore < 0 {
		errors = append(errors, fmt.Sprintf("home score cannot be negative, got %d", *game.HomeScore))
	}
	if game.AwayScore != nil && *game.AwayScore < 0 {
		errors = append(errors, fmt.Sprintf("away score cannot be negative, got %d", *game.AwayScore))
	}
	if game.Completed && !game.HasFinalScore() {
		errors = append(errors, "completed game is missing a score")
	}

	if game.Spread != nil && (*game.Spread < -100 || *game.Spread > 100) {
		errors = append(errors, fmt.Sprintf("spread out of range, got %.1f", *game.Spread))
	}
	if game.OverUnder != nil && *game.OverUnder <= 0 {
		errors = append(errors, fmt.Sprintf("over/under must be positive, got %.1f", *game.OverUnder))
	}

	if game.Season > 0 && !game.StartDate.IsZero() {
		year := game.StartDate.Year()
		// Bowl games kick off in the January after the season
		if year < game.Season || year > game.Season+1 {
			errors = append(errors, fmt.Sprintf("start date %s outside season %d", game.StartDate.Format(time.DateOnly), game.Season))
		}
	}

	return errors
}

// ValidateTeam validates team data
func (v *DataValidator) ValidateTeam(team *models.Team) []string {
	var errors []string
	if err := v.validate.Struct(team); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errors = append(errors, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			errors = append(errors, err.Error())
		}
	}
	if len(team.Name) > 100 {
		errors = append(errors, "team name too long")
	}
	return errors
}
