package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-assignment-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()

		db, err := database.Connect(cfg, log)
		if err != nil {
			return err
		}
		return database.Migrate(db, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
