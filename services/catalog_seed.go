package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
)

// SeedCatalog reads a JSON array of medicines and upserts them by name.
// Entries without a name are skipped.
func SeedCatalog(ctx context.Context, medicines repository.MedicineRepository, r io.Reader) (int, error) {
	var docs []models.Medicine
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return 0, fmt.Errorf("failed to decode catalog: %w", err)
	}

	valid := docs[:0]
	for _, m := range docs {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		valid = append(valid, m)
	}

	return medicines.UpsertMany(ctx, valid)
}
