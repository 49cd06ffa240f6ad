package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/datasource"
	"github.com/yourusername/ricks-picks/internal/models"
	"github.com/yourusername/ricks-picks/internal/service"
	"github.com/yourusername/ricks-picks/internal/tracing"
)

var ingestOpts struct {
	season     int
	week       int
	seasonType string
	teams      bool
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull teams, games, lines and weather from CollegeFootballData",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ingestOpts.season == 0 {
			return fmt.Errorf("--season is required")
		}
		if err := connect(cmd.Context()); err != nil {
			return err
		}
		svc, err := newIngestionService()
		if err != nil {
			return err
		}

		if ingestOpts.teams {
			n, err := svc.IngestTeams(cmd.Context(), ingestOpts.season)
			if err != nil {
				return err
			}
			logger.WithField("teams", n).Info("Teams ingested")
		}

		for _, seasonType := range seasonTypes(ingestOpts.seasonType) {
			var m *service.IngestionMetrics
			err := tracing.Trace(cmd.Context(), "ingest-week", func(ctx context.Context) error {
				tracing.AddAnnotation(ctx, "season_type", seasonType)
				var ierr error
				m, ierr = svc.IngestWeek(ctx, ingestOpts.season, ingestOpts.week, seasonType)
				return ierr
			})
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"season":      ingestOpts.season,
				"week":        ingestOpts.week,
				"season_type": seasonType,
			}).Info(m.String())
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestOpts.season, "season", 0, "Season year to ingest")
	ingestCmd.Flags().IntVar(&ingestOpts.week, "week", 0, "Week to ingest, 0 for the whole season")
	ingestCmd.Flags().StringVar(&ingestOpts.seasonType, "season-type", "", "regular, postseason or both (default from config)")
	ingestCmd.Flags().BoolVar(&ingestOpts.teams, "teams", false, "Refresh the FBS team list first")
}

func newIngestionService() (*service.IngestionService, error) {
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfigFrom(cfg.DataSource), logger)
	httpClient.Instrument(tracing.InstrumentClient)

	source, err := datasource.NewFactory(logger).NewDataSource(cfg.DataSource, httpClient)
	if err != nil {
		return nil, err
	}
	return service.NewIngestionService(
		source,
		repos,
		service.NewDataValidator(logger),
		service.NewDataNormalizer(cfg.DataSource.PreferredProvider, logger),
		logger,
	), nil
}

func seasonTypes(flag string) []string {
	if flag == "" {
		flag = cfg.DataSource.SeasonType
	}
	switch flag {
	case "both":
		return []string{string(models.SeasonTypeRegular), string(models.SeasonTypePostseason)}
	case string(models.SeasonTypePostseason):
		return []string{flag}
	default:
		return []string{string(models.SeasonTypeRegular)}
	}
}
