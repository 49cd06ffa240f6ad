package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/ricks-picks/internal/database"
	"github.com/yourusername/ricks-picks/internal/models"
)

const (
	errScanGame = "failed to scan game: %w"

	gameColumns = `
		id, season, week, season_type, start_date, completed,
		home_team_id, away_team_id, home_team, away_team, home_conference, away_conference,
		home_team_score, away_team_score, spread, over_under, neutral_site, is_conference_game,
		stadium, home_ranked, away_ranked,
		temperature, wind_speed, precipitation, weather_condition, is_dome,
		created_at, updated_at`
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts a game or refreshes scores, lines and weather
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			id, season, week, season_type, start_date, completed,
			home_team_id, away_team_id, home_team, away_team, home_conference, away_conference,
			home_team_score, away_team_score, spread, over_under, neutral_site, is_conference_game,
			stadium, home_ranked, away_ranked,
			temperature, wind_speed, precipitation, weather_condition, is_dome
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		ON CONFLICT (id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			completed = EXCLUDED.completed,
			home_team_score = EXCLUDED.home_team_score,
			away_team_score = EXCLUDED.away_team_score,
			spread = COALESCE(EXCLUDED.spread, games.spread),
			over_under = COALESCE(EXCLUDED.over_under, games.over_under),
			home_ranked = COALESCE(EXCLUDED.home_ranked, games.home_ranked),
			away_ranked = COALESCE(EXCLUDED.away_ranked, games.away_ranked),
			temperature = COALESCE(EXCLUDED.temperature, games.temperature),
			wind_speed = COALESCE(EXCLUDED.wind_speed, games.wind_speed),
			precipitation = COALESCE(EXCLUDED.precipitation, games.precipitation),
			weather_condition = COALESCE(EXCLUDED.weather_condition, games.weather_condition),
			is_dome = EXCLUDED.is_dome OR games.is_dome,
			updated_at = NOW()
	`

	w := game.Weather
	_, err := r.db.Conn(ctx).Exec(ctx, query,
		game.ID, game.Season, game.Week, game.SeasonType, game.StartDate, game.Completed,
		game.HomeTeamID, game.AwayTeamID, game.HomeTeam, game.AwayTeam, game.HomeConference, game.AwayConference,
		game.HomeScore, game.AwayScore, game.Spread, game.OverUnder, game.NeutralSite, game.ConferenceGame,
		game.Venue, game.HomeRanked, game.AwayRanked,
		w.TemperatureF, w.WindSpeedMPH, w.PrecipitationIn, w.Condition, w.IsDome,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetCompleted retrieves completed games in processing order
func (r *PostgresGameRepository) GetCompleted(ctx context.Context) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE completed = TRUE
		ORDER BY start_date ASC, id ASC
	`
	return r.list(ctx, "completed games", query)
}

// GetUpcoming retrieves games that have not kicked off, soonest first
func (r *PostgresGameRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE completed = FALSE AND start_date > NOW()
		ORDER BY start_date ASC
		LIMIT $1
	`
	return r.list(ctx, "upcoming games", query, limit)
}

// GetBySeasonWeek retrieves every game of a week
func (r *PostgresGameRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2
		ORDER BY start_date ASC
	`
	return r.list(ctx, "games by week", query, season, week)
}

// GetWithLines retrieves completed games that carry a market spread.
// An empty season list means every season; limit <= 0 means no limit.
func (r *PostgresGameRepository) GetWithLines(ctx context.Context, seasons []int, limit int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE completed = TRUE
		  AND spread IS NOT NULL
		  AND home_team_score IS NOT NULL
		  AND away_team_score IS NOT NULL
		  AND (cardinality($1::int[]) = 0 OR season = ANY($1::int[]))
		ORDER BY start_date DESC
		LIMIT NULLIF($2, 0)
	`
	if seasons == nil {
		seasons = []int{}
	}
	if limit < 0 {
		limit = 0
	}
	return r.list(ctx, "games with lines", query, seasons, limit)
}

func (r *PostgresGameRepository) list(ctx context.Context, what, query string, args ...any) ([]*models.Game, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func scanGame(row pgx.Row) (*models.Game, error) {
	g := &models.Game{}
	w := &g.Weather
	err := row.Scan(
		&g.ID, &g.Season, &g.Week, &g.SeasonType, &g.StartDate, &g.Completed,
		&g.HomeTeamID, &g.AwayTeamID, &g.HomeTeam, &g.AwayTeam, &g.HomeConference, &g.AwayConference,
		&g.HomeScore, &g.AwayScore, &g.Spread, &g.OverUnder, &g.NeutralSite, &g.ConferenceGame,
		&g.Venue, &g.HomeRanked, &g.AwayRanked,
		&w.TemperatureF, &w.WindSpeedMPH, &w.PrecipitationIn, &w.Condition, &w.IsDome,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}
