package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mining-chatbot/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "mining-chatbot",
	Short:         "Mining industry chatbot backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the CLI until SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap loads config and the logger shared by every command.
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v. Using production logger.\n", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}
