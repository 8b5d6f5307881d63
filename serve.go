package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"medicine-chatbot-backend/config"
	"medicine-chatbot-backend/database"
	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/routes"
	"medicine-chatbot-backend/services"
)

var serveCatalog string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "JSON catalog to load before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Disconnect(cfg); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to disconnect database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serveCatalog != "" {
		if err := seedFromFile(ctx, repos.Medicines, serveCatalog); err != nil {
			return err
		}
	}

	opts, err := matcher.LoadOptions(cfg.Matching.OptionsFile)
	if err != nil {
		return fmt.Errorf("failed to load matching options: %w", err)
	}

	vocab := matcher.NewVocabulary()
	if err := vocab.Refresh(ctx, repos.Medicines); err != nil {
		return fmt.Errorf("failed to build symptom vocabulary: %w", err)
	}
	if cfg.Matching.VocabRefresh == config.RefreshPeriodic {
		go vocab.RefreshEvery(ctx, repos.Medicines, cfg.Matching.RefreshInterval)
	}

	chatbotService := services.NewChatbotService(repos, vocab, matcher.Levenshtein{}, opts)
	router := routes.NewRouter(cfg, chatbotService)

	// Log available endpoints
	logAvailableEndpoints(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Port).Msg("Server starting")
		logger.Log.Info().Msgf("Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exited")
	return nil
}

// logAvailableEndpoints logs all registered routes
func logAvailableEndpoints(router *gin.Engine) {
	for _, route := range router.Routes() {
		logger.Log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("Route registered")
	}
}
