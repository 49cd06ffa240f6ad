package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DataSource defines the interface for fetching college football data from external providers
type DataSource interface {
	// FetchTeams retrieves FBS teams and their conference for a season
	FetchTeams(ctx context.Context, year int) ([]TeamData, error)

	// FetchGames retrieves the schedule and results for a week
	FetchGames(ctx context.Context, year, week int, seasonType string) ([]GameData, error)

	// FetchLines retrieves betting lines for a week
	FetchLines(ctx context.Context, year, week int, seasonType string) ([]GameLines, error)

	// FetchWeather retrieves kickoff weather for a week
	FetchWeather(ctx context.Context, year, week int, seasonType string) ([]WeatherData, error)

	// FetchRankings retrieves poll rankings for a week
	FetchRankings(ctx context.Context, year, week int, seasonType string) ([]Ranking, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// TeamData represents a team as reported by the provider
type TeamData struct {
	ID         int64  `json:"id"`
	School     string `json:"school"`
	Conference string `json:"conference"`
}

// GameData represents a scheduled or completed game
type GameData struct {
	ID             int64     `json:"id"`
	Season         int       `json:"season"`
	Week           int       `json:"week"`
	SeasonType     string    `json:"seasonType"`
	StartDate      time.Time `json:"startDate"`
	Completed      bool      `json:"completed"`
	NeutralSite    bool      `json:"neutralSite"`
	ConferenceGame bool      `json:"conferenceGame"`
	Venue          string    `json:"venue"`
	HomeID         int64     `json:"homeId"`
	HomeTeam       string    `json:"homeTeam"`
	HomeConference *string   `json:"homeConference"`
	HomePoints     *int      `json:"homePoints"`
	AwayID         int64     `json:"awayId"`
	AwayTeam       string    `json:"awayTeam"`
	AwayConference *string   `json:"awayConference"`
	AwayPoints     *int      `json:"awayPoints"`
}

// GameLines groups every provider's line for one game
type GameLines struct {
	ID       int64          `json:"id"`
	HomeTeam string         `json:"homeTeam"`
	AwayTeam string         `json:"awayTeam"`
	Lines    []ProviderLine `json:"lines"`
}

// ProviderLine is one sportsbook's line. The provider sends numbers or numeric strings.
type ProviderLine struct {
	Provider  string              `json:"provider"`
	Spread    decimal.NullDecimal `json:"spread"`
	OverUnder decimal.NullDecimal `json:"overUnder"`
}

// WeatherData represents kickoff conditions for a game
type WeatherData struct {
	ID               int64    `json:"id"`
	GameIndoors      bool     `json:"gameIndoors"`
	Temperature      *float64 `json:"temperature"`
	WindSpeed        *float64 `json:"windSpeed"`
	Precipitation    *float64 `json:"precipitation"`
	WeatherCondition *string  `json:"weatherCondition"`
}

// Ranking is a poll release for one week
type Ranking struct {
	Season     int    `json:"season"`
	SeasonType string `json:"seasonType"`
	Week       int    `json:"week"`
	Polls      []Poll `json:"polls"`
}

// Poll lists ranked teams in one poll
type Poll struct {
	Poll  string       `json:"poll"`
	Ranks []RankedTeam `json:"ranks"`
}

// RankedTeam is one entry of a poll
type RankedTeam struct {
	Rank       int    `json:"rank"`
	School     string `json:"school"`
	Conference string `json:"conference"`
}

// PickLine chooses the preferred provider's line, falling back to the first line that carries a spread
func (g GameLines) PickLine(preferred string) (ProviderLine, bool) {
	for _, l := range g.Lines {
		if l.Provider == preferred && l.Spread.Valid {
			return l, true
		}
	}
	for _, l := range g.Lines {
		if l.Spread.Valid {
			return l, true
		}
	}
	return ProviderLine{}, false
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the code of a DataSourceError, or ErrCodeUnknown
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
