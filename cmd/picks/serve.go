package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/health"
	"github.com/yourusername/ricks-picks/internal/metrics"
	"github.com/yourusername/ricks-picks/internal/scheduler"
	"github.com/yourusername/ricks-picks/internal/service"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled jobs and the HTTP endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := connect(ctx); err != nil {
			return err
		}
		model, err := newModel()
		if err != nil {
			return err
		}
		ingestion, err := newIngestionService()
		if err != nil {
			return err
		}

		ratings := newRatingService()
		if _, err := ratings.Rebuild(ctx); err != nil {
			logger.WithError(err).Warn("Initial rating rebuild failed, predictions wait for the scheduled rebuild")
		}
		predictions := service.NewPredictionService(repos, model, cfg.PredictionTTL(),
			time.Duration(cfg.Cache.CleanupSeconds)*time.Second, logger)

		sched := scheduler.NewScheduler(logger)
		sched.OnDataChange(predictions.Invalidate)
		if err := sched.ScheduleIngestion(cfg.Schedule.Ingest, ingestion); err != nil {
			return err
		}
		if err := sched.ScheduleRatingRebuild(cfg.Schedule.Ratings, ratings); err != nil {
			return err
		}
		opts := service.PredictionOptions{Persist: true, Workers: cfg.App.Workers}
		if err := sched.SchedulePredictions(cfg.Schedule.Prediction, ratings, predictions, opts); err != nil {
			return err
		}

		port := servePort
		if port == "" {
			port = strconv.Itoa(cfg.Metrics.Port)
		}
		srvCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        port,
			Logger:      logger,
			DB:          db,
			Standings:   ratings,
			Predictions: predictions,
		}
		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
			srvCfg.MetricsPath = cfg.Metrics.Path
			srvCfg.MetricsHandler = metrics.Handler()
		}
		srv := health.NewServer(srvCfg)
		// shut down explicitly below so the process waits for in-flight requests
		if err := srv.Start(context.WithoutCancel(ctx)); err != nil {
			return err
		}

		if err := sched.Start(); err != nil {
			logger.WithError(err).Warn("Scheduler not started")
		} else {
			defer func() {
				if err := sched.Stop(); err != nil {
					logger.WithError(err).Warn("Scheduler stop timed out")
				}
			}()
		}
		srv.SetReady(true)

		<-ctx.Done()
		logger.Info("Shutting down")
		srv.SetReady(false)
		return shutdown(srv)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (default from metrics.port)")
}

func shutdown(srv *health.Server) error {
	done := make(chan error, 1)
	go func() { done <- srv.Shutdown() }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}
