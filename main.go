package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"medicine-chatbot-backend/config"
	"medicine-chatbot-backend/database"
	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/repository"
)

var rootCmd = &cobra.Command{
	Use:   "medicine-chatbot",
	Short: "Medicine shop chatbot backend",
	Long: `Serves the medicine shop chatbot: symptom based recommendations,
medicine details and a conversational cart, backed by MongoDB.`,
	SilenceUsage: true,
	// Without a subcommand the server starts.
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// bootstrap loads configuration and applies logging settings.
func bootstrap() (*config.Config, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()

	logger.SetLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		logger.SetJSON()
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, nil
}

// openRepositories connects to the configured store.
func openRepositories(cfg *config.Config) (*repository.Repositories, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Type == "memory" {
		logger.Log.Warn().Msg("Using in-memory store, data is lost on exit")
		return repository.NewMemoryRepositories(), nil
	}
	return repository.NewMongoRepositories(database.GetMongoDB()), nil
}
