package matcher

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds the scoring weights and thresholds. The defaults reproduce
// the production ranking; a YAML file can override any of them.
type Options struct {
	ExactBonus        float64 `yaml:"exact_bonus"`
	StrongSimilarity  int     `yaml:"strong_similarity"`
	WeakSimilarity    int     `yaml:"weak_similarity"`
	WeakWeight        float64 `yaml:"weak_weight"`
	StemBonus         float64 `yaml:"stem_bonus"`
	RelevanceCutoff   float64 `yaml:"relevance_cutoff"`
	TopK              int     `yaml:"top_k"`
	MaxTerms          int     `yaml:"max_terms"`
	NameSimilarity    int     `yaml:"name_similarity"`
	TypoSimilarity    int     `yaml:"typo_similarity"`
	MaxCartCandidates int     `yaml:"max_cart_candidates"`
}

func DefaultOptions() Options {
	return Options{
		ExactBonus:        100,
		StrongSimilarity:  85,
		WeakSimilarity:    70,
		WeakWeight:        0.5,
		StemBonus:         60,
		RelevanceCutoff:   20,
		TopK:              5,
		MaxTerms:          10,
		NameSimilarity:    80,
		TypoSimilarity:    80,
		MaxCartCandidates: 5,
	}
}

// LoadOptions reads a YAML file on top of the defaults. An empty path
// returns the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read matching options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse matching options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o Options) Validate() error {
	switch {
	case o.WeakSimilarity > o.StrongSimilarity:
		return fmt.Errorf("weak_similarity (%d) above strong_similarity (%d)", o.WeakSimilarity, o.StrongSimilarity)
	case o.TopK <= 0:
		return fmt.Errorf("top_k must be positive")
	case o.MaxTerms <= 0:
		return fmt.Errorf("max_terms must be positive")
	case o.NameSimilarity <= 0 || o.NameSimilarity > 100:
		return fmt.Errorf("name_similarity must be in 1..100")
	}
	return nil
}
