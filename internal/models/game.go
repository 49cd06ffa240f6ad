package models

import "time"

// SeasonType distinguishes regular season and postseason games
type SeasonType string

const (
	SeasonTypeRegular    SeasonType = "regular"
	SeasonTypePostseason SeasonType = "postseason"
)

// Weather captures kickoff conditions. A dome game has fixed nominal conditions,
// so the remaining fields are ignored whenever IsDome is set.
type Weather struct {
	TemperatureF    *float64 `db:"temperature" json:"temperature"`
	WindSpeedMPH    *float64 `db:"wind_speed" json:"wind_speed"`
	PrecipitationIn *float64 `db:"precipitation" json:"precipitation"`
	Condition       *string  `db:"weather_condition" json:"weather_condition"`
	IsDome          bool     `db:"is_dome" json:"is_dome"`
}

// HasPrecipitation reports measurable precipitation at an outdoor venue
func (w Weather) HasPrecipitation() bool {
	return !w.IsDome && w.PrecipitationIn != nil && *w.PrecipitationIn > 0
}

// Game represents a scheduled or completed matchup
type Game struct {
	ID             int64      `db:"id" json:"id" validate:"required"`
	Season         int        `db:"season" json:"season" validate:"required,gt=1868"`
	Week           int        `db:"week" json:"week" validate:"gte=0"`
	SeasonType     SeasonType `db:"season_type" json:"season_type"`
	StartDate      time.Time  `db:"start_date" json:"start_date" validate:"required"`
	Completed      bool       `db:"completed" json:"completed"`
	HomeTeamID     int64      `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID     int64      `db:"away_team_id" json:"away_team_id" validate:"required"`
	HomeTeam       string     `db:"home_team" json:"home_team"`
	AwayTeam       string     `db:"away_team" json:"away_team"`
	HomeConference Conference `db:"home_conference" json:"home_conference"`
	AwayConference Conference `db:"away_conference" json:"away_conference"`
	HomeScore      *int       `db:"home_team_score" json:"home_team_score"`
	AwayScore      *int       `db:"away_team_score" json:"away_team_score"`
	Spread         *float64   `db:"spread" json:"spread"`         // home perspective, negative when home is favored
	OverUnder      *float64   `db:"over_under" json:"over_under"` // market total
	NeutralSite    bool       `db:"neutral_site" json:"neutral_site"`
	ConferenceGame bool       `db:"is_conference_game" json:"is_conference_game"`
	Venue          string     `db:"stadium" json:"stadium"`
	HomeRanked     *bool      `db:"home_ranked" json:"home_ranked"`
	AwayRanked     *bool      `db:"away_ranked" json:"away_ranked"`
	Weather        Weather    `json:"weather"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// HasFinalScore reports whether both scores are present
func (g *Game) HasFinalScore() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// IsRateable reports whether the game can feed a rating update
func (g *Game) IsRateable() bool {
	return g.Completed && g.HasFinalScore()
}

// HasLine reports whether a market spread is available
func (g *Game) HasLine() bool {
	return g.Spread != nil
}

// Margin returns home score minus away score
func (g *Game) Margin() (int, bool) {
	if !g.HasFinalScore() {
		return 0, false
	}
	return *g.HomeScore - *g.AwayScore, true
}

// IsUpcoming checks if the game hasn't kicked off yet
func (g *Game) IsUpcoming(now time.Time) bool {
	return !g.Completed && g.StartDate.After(now)
}
