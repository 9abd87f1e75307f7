package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-assignment-api/internal/config"
	"github.com/yukikurage/task-assignment-api/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "task-assignment-api",
	Short:         "Users and task assignment HTTP API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// bootstrap loads .env and the configuration and builds the logger
func bootstrap() (*config.Config, *logrus.Logger) {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}
	return cfg, log
}
