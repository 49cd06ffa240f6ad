package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/ricks-picks/internal/export"
)

var ratingsOpts struct {
	top    int
	output string
	team   string
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Rebuild ELO ratings from every completed game and print the standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := connect(ctx); err != nil {
			return err
		}

		svc := newRatingService()
		report, err := svc.Rebuild(ctx)
		if err != nil {
			return err
		}
		for reason, n := range report.SkipCounts() {
			logger.WithField("reason", reason).Warnf("%d games skipped", n)
		}

		out, err := openOutput(cmd, ratingsOpts.output)
		if err != nil {
			return err
		}
		defer out.Close()

		if ratingsOpts.team != "" {
			team, err := repos.Team.GetByName(ctx, ratingsOpts.team)
			if err != nil {
				return fmt.Errorf("team %q: %w", ratingsOpts.team, err)
			}
			history, err := repos.RatingSnapshot.GetByTeamID(ctx, team.ID)
			if err != nil {
				return err
			}
			return export.WriteHistory(out, history)
		}

		standings := svc.Standings()
		if ratingsOpts.top > 0 && len(standings) > ratingsOpts.top {
			standings = standings[:ratingsOpts.top]
		}
		return export.WriteStandings(out, standings)
	},
}

func init() {
	ratingsCmd.Flags().IntVar(&ratingsOpts.top, "top", 25, "Number of teams to print, 0 for all")
	ratingsCmd.Flags().StringVarP(&ratingsOpts.output, "output", "o", "", "CSV output file (default stdout)")
	ratingsCmd.Flags().StringVar(&ratingsOpts.team, "team", "", "Print the rating history of one team instead")
}
