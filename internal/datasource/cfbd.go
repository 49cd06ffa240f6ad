package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const cfbdSourceName = "cfbd"

// CFBDClient fetches data from the CollegeFootballData API
type CFBDClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     logrus.FieldLogger
}

// NewCFBDClient creates a new CollegeFootballData client
func NewCFBDClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger logrus.FieldLogger) *CFBDClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CFBDClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("source", cfbdSourceName),
	}
}

// Name returns the data source name
func (c *CFBDClient) Name() string {
	return cfbdSourceName
}

// IsEnabled reports whether an API key is configured. The API rejects anonymous requests.
func (c *CFBDClient) IsEnabled() bool {
	return c.apiKey != ""
}

// FetchTeams retrieves FBS teams for a season
func (c *CFBDClient) FetchTeams(ctx context.Context, year int) ([]TeamData, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	var teams []TeamData
	if err := c.getJSON(ctx, "/teams/fbs", params, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// FetchGames retrieves games for a week. A week of zero fetches the whole season.
func (c *CFBDClient) FetchGames(ctx context.Context, year, week int, seasonType string) ([]GameData, error) {
	var games []GameData
	if err := c.getJSON(ctx, "/games", weekParams(year, week, seasonType), &games); err != nil {
		return nil, err
	}
	return games, nil
}

// FetchLines retrieves betting lines for a week
func (c *CFBDClient) FetchLines(ctx context.Context, year, week int, seasonType string) ([]GameLines, error) {
	var lines []GameLines
	if err := c.getJSON(ctx, "/lines", weekParams(year, week, seasonType), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// FetchWeather retrieves game weather for a week
func (c *CFBDClient) FetchWeather(ctx context.Context, year, week int, seasonType string) ([]WeatherData, error) {
	var weather []WeatherData
	if err := c.getJSON(ctx, "/games/weather", weekParams(year, week, seasonType), &weather); err != nil {
		return nil, err
	}
	return weather, nil
}

// FetchRankings retrieves poll rankings for a week
func (c *CFBDClient) FetchRankings(ctx context.Context, year, week int, seasonType string) ([]Ranking, error) {
	var rankings []Ranking
	if err := c.getJSON(ctx, "/rankings", weekParams(year, week, seasonType), &rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}

func weekParams(year, week int, seasonType string) url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	if week > 0 {
		params.Set("week", strconv.Itoa(week))
	}
	if seasonType != "" {
		params.Set("seasonType", seasonType)
	}
	return params
}

func (c *CFBDClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if !c.IsEnabled() {
		return NewDataSourceError(c.Name(), ErrCodeDisabled, "API key not configured", nil)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Accept":        "application/json",
	}

	resp, err := c.httpClient.Get(ctx, endpoint, headers)
	if err != nil {
		return NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusNotFound:
		return NewDataSourceError(c.Name(), ErrCodeNotFound, path+" not found", ErrNotFound)
	case http.StatusTooManyRequests:
		return NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		if resp.StatusCode >= 500 {
			return NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("server error: %d", resp.StatusCode), ErrServerError)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(c.Name(), ErrCodeUnknown, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to decode "+path, fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	c.logger.WithField("path", path).WithField("query", params.Encode()).Debug("Fetched data")
	return nil
}
