package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the bundled database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(cmd.Context()); err != nil {
			return err
		}
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema applied")
		return nil
	},
}
