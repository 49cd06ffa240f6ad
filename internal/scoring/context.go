package scoring

import (
	"time"

	"github.com/yourusername/ricks-picks/internal/models"
)

// GameContext is everything the model needs to score one game
type GameContext struct {
	GameID         int64
	HomeTeam       string
	AwayTeam       string
	HomeRating     *float64
	AwayRating     *float64
	HomeConference models.Conference
	AwayConference models.Conference
	Weather        models.Weather
	MarketSpread   *float64 // home perspective, negative when home is favored
	MarketTotal    *float64
	HomeRanked     *bool
	AwayRanked     *bool
	NeutralSite    bool
	StartDate      time.Time
}

// RatingLookup resolves a team's current rating
type RatingLookup interface {
	RatingFor(teamID int64) (float64, bool)
}

// ContextFromGame assembles a context from a stored game and a rating lookup.
// Teams missing from the lookup stay unrated.
func ContextFromGame(game models.Game, ratings RatingLookup) GameContext {
	ctx := GameContext{
		GameID:         game.ID,
		HomeTeam:       game.HomeTeam,
		AwayTeam:       game.AwayTeam,
		HomeConference: game.HomeConference,
		AwayConference: game.AwayConference,
		Weather:        game.Weather,
		MarketSpread:   game.Spread,
		MarketTotal:    game.OverUnder,
		HomeRanked:     game.HomeRanked,
		AwayRanked:     game.AwayRanked,
		NeutralSite:    game.NeutralSite,
		StartDate:      game.StartDate,
	}
	if ratings != nil {
		if r, ok := ratings.RatingFor(game.HomeTeamID); ok {
			ctx.HomeRating = &r
		}
		if r, ok := ratings.RatingFor(game.AwayTeamID); ok {
			ctx.AwayRating = &r
		}
	}
	return ctx
}

// ImpliedSpread converts the market line into the model's positive-favors-home convention
func (c GameContext) ImpliedSpread() (float64, bool) {
	if c.MarketSpread == nil {
		return 0, false
	}
	return -*c.MarketSpread, true
}
