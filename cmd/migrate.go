package cmd

import (
	"fmt"

	"mining-chatbot/pkg/database"

	"github.com/spf13/cobra"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	return database.Migrate(cmd.Context(), db, logger)
}
