package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/datasource"
	"github.com/yourusername/ricks-picks/internal/logger"
	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/repository"
)

// IngestionService handles the data ingestion workflow
type IngestionService struct {
	source     datasource.DataSource
	teamRepo   repository.TeamRepository
	gameRepo   repository.GameRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	metrics    *IngestionMetrics
	audit      *logger.AuditLogger
	logger     *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.DataSource,
	repos *repository.Repositories,
	validator *DataValidator,
	normalizer *DataNormalizer,
	log *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		source:     source,
		teamRepo:   repos.Team,
		gameRepo:   repos.Game,
		validator:  validator,
		normalizer: normalizer,
		metrics:    NewIngestionMetrics(),
		audit:      logger.NewAuditLogger(log),
		logger:     log,
	}
}

// IngestTeams fetches and stores the FBS team list for a season
func (s *IngestionService) IngestTeams(ctx context.Context, year int) (int, error) {
	teams, err := s.source.FetchTeams(ctx, year)
	s.recordRequest("/teams/fbs", err)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch teams: %w", err)
	}

	stored := 0
	for _, src := range teams {
		team := s.normalizer.NormalizeTeam(src)
		if errs := s.validator.ValidateTeam(team); len(errs) > 0 {
			s.logger.WithField("team", src.School).Warnf("Team validation failed: %v", errs)
			continue
		}
		if err := s.teamRepo.Upsert(ctx, team); err != nil {
			return stored, fmt.Errorf("failed to store team %s: %w", team.Name, err)
		}
		stored++
	}

	s.logger.WithFields(logrus.Fields{
		"season":  year,
		"fetched": len(teams),
		"stored":  stored,
	}).Info("Teams ingested")
	return stored, nil
}

// IngestWeek fetches games, lines, weather and rankings for a week and upserts the joined games.
// A week of zero ingests the whole season. Only the games fetch is fatal.
func (s *IngestionService) IngestWeek(ctx context.Context, year, week int, seasonType string) (*IngestionMetrics, error) {
	s.metrics.Reset()
	log := s.logger.WithFields(logrus.Fields{
		"source":      s.source.Name(),
		"season":      year,
		"week":        week,
		"season_type": seasonType,
	})
	log.Info("Starting ingestion")

	games, err := s.source.FetchGames(ctx, year, week, seasonType)
	s.recordRequest("/games", err)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch games: %w", err)
	}
	s.metrics.RecordFetched(len(games))

	lines, err := s.source.FetchLines(ctx, year, week, seasonType)
	s.recordRequest("/lines", err)
	if err != nil {
		log.WithError(err).Warn("Betting lines unavailable, storing games without a line")
	}

	weather, err := s.source.FetchWeather(ctx, year, week, seasonType)
	s.recordRequest("/games/weather", err)
	if err != nil {
		log.WithError(err).Warn("Weather unavailable, storing games without conditions")
	}

	var rankings []datasource.Ranking
	if week > 0 {
		rankings, err = s.source.FetchRankings(ctx, year, week, seasonType)
		s.recordRequest("/rankings", err)
		if err != nil {
			log.WithError(err).Warn("Rankings unavailable")
		}
	}

	extras := NewWeekExtras(lines, weather, rankings)

	for _, src := range games {
		if err := ctx.Err(); err != nil {
			return s.metrics, err
		}

		game, err := s.normalizer.NormalizeGame(src, extras)
		if err != nil {
			s.metrics.RecordValidationError()
			log.WithError(err).Warn("Failed to normalize game")
			continue
		}

		if errs := s.validator.ValidateGame(game); len(errs) > 0 {
			s.metrics.RecordValidationError()
			log.WithField("game_id", game.ID).Warnf("Game validation failed: %v", errs)
			continue
		}

		if err := s.gameRepo.Upsert(ctx, game); err != nil {
			s.metrics.RecordError()
			log.WithField("game_id", game.ID).WithError(err).Error("Failed to store game")
			continue
		}
		_, hasWeather := extras.Weather[game.ID]
		s.metrics.RecordStored(game.HasLine(), hasWeather)
	}

	s.metrics.Finish()
	fetched, stored, failed := s.metrics.Counts()
	metrics.RecordIngestedGames("stored", stored)
	metrics.RecordIngestedGames("failed", failed)
	s.audit.LogIngestionRun(s.source.Name(), year, week, fetched, stored, failed)
	log.Info(s.metrics.String())

	return s.metrics, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

func (s *IngestionService) recordRequest(endpoint string, err error) {
	status := "ok"
	if err != nil {
		status = datasource.ErrorCode(err)
	}
	metrics.RecordIngestionRequest(endpoint, status)
}
