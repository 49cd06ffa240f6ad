package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/export"
	"github.com/yourusername/ricks-picks/internal/rating"
	"github.com/yourusername/ricks-picks/internal/service"
)

var predictOpts struct {
	limit   int
	persist bool
	stored  bool
	output  string
	csv     bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score upcoming games against the market",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := connect(ctx); err != nil {
			return err
		}
		model, err := newModel()
		if err != nil {
			return err
		}

		ratings := newRatingService()
		var snapshot rating.Snapshot
		if predictOpts.stored {
			snapshot, err = ratings.LoadStored(ctx)
		} else {
			_, err = ratings.Rebuild(ctx)
			snapshot, _ = ratings.Current()
		}
		if err != nil {
			return err
		}

		svc := service.NewPredictionService(repos, model, 0, 0, logger)
		preds, err := svc.PredictUpcoming(ctx, snapshot, service.PredictionOptions{
			Limit:   predictOpts.limit,
			Persist: predictOpts.persist,
			Workers: cfg.App.Workers,
		})
		if err != nil {
			return err
		}

		out, err := openOutput(cmd, predictOpts.output)
		if err != nil {
			return err
		}
		defer out.Close()

		if predictOpts.csv || predictOpts.output != "" {
			return export.WritePredictions(out, preds)
		}
		for i := range preds {
			fmt.Fprintln(out, preds[i].Summary())
			for _, line := range preds[i].Rationale {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().IntVar(&predictOpts.limit, "limit", 0, "Maximum upcoming games, 0 for all")
	predictCmd.Flags().BoolVar(&predictOpts.persist, "persist", false, "Store predictions")
	predictCmd.Flags().BoolVar(&predictOpts.stored, "stored-ratings", false, "Use ratings already on the teams table instead of rebuilding")
	predictCmd.Flags().StringVarP(&predictOpts.output, "output", "o", "", "CSV output file")
	predictCmd.Flags().BoolVar(&predictOpts.csv, "csv", false, "Print CSV to stdout")
}
