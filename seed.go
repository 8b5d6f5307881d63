package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medicine-chatbot-backend/database"
	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/repository"
	"medicine-chatbot-backend/services"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert medicines from a JSON catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.Database.Type == "memory" {
			return fmt.Errorf("seeding the in-memory store has no effect, use serve --catalog instead")
		}

		repos, err := openRepositories(cfg)
		if err != nil {
			return err
		}
		defer database.Disconnect(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout*6)
		defer cancel()
		return seedFromFile(ctx, repos.Medicines, seedFile)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path to a JSON array of medicines")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

func seedFromFile(ctx context.Context, medicines repository.MedicineRepository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	n, err := services.SeedCatalog(ctx, medicines, f)
	if err != nil {
		return err
	}
	logger.Log.Info().Int("medicines", n).Str("file", path).Msg("Catalog seeded")
	return nil
}
