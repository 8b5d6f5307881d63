package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/models"
)

// CatalogSource lists every medicine in the catalog.
type CatalogSource interface {
	ListAll(ctx context.Context) ([]models.Medicine, error)
}

// Vocabulary caches all known indication phrases for phrase extraction. It
// is built once at startup and only changes when Refresh runs, so catalog
// edits are invisible until then.
type Vocabulary struct {
	mu      sync.RWMutex
	phrases []string
	builtAt time.Time
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{}
}

// Build replaces the cached phrases with the uses of medicines. Longer
// phrases come first so multi-word matches win over their parts.
func (v *Vocabulary) Build(medicines []models.Medicine) {
	seen := make(map[string]bool)
	var phrases []string
	for i := range medicines {
		for _, use := range medicines[i].Uses() {
			p := strings.Join(strings.Fields(strings.ToLower(use)), " ")
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			phrases = append(phrases, p)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	v.mu.Lock()
	v.phrases = phrases
	v.builtAt = time.Now()
	v.mu.Unlock()
}

// Refresh reloads the catalog and rebuilds the vocabulary.
func (v *Vocabulary) Refresh(ctx context.Context, src CatalogSource) error {
	medicines, err := src.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load catalog for vocabulary: %w", err)
	}
	v.Build(medicines)
	logger.Log.Info().Int("phrases", v.Size()).Msg("Symptom vocabulary rebuilt")
	return nil
}

// RefreshEvery rebuilds the vocabulary on a ticker until ctx is done.
// Failures are logged and the previous vocabulary stays in place.
func (v *Vocabulary) RefreshEvery(ctx context.Context, src CatalogSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.Refresh(ctx, src); err != nil {
				logger.Log.Error().Err(err).Msg("Periodic vocabulary refresh failed")
			}
		}
	}
}

func (v *Vocabulary) Phrases() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.phrases...)
}

func (v *Vocabulary) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.phrases)
}

func (v *Vocabulary) BuiltAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.builtAt
}
