package matcher

import (
	"sort"
	"strings"

	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/utils"
)

// AllergyTerms replace the extracted symptoms whenever a message is about allergies.
var AllergyTerms = []string{"allergic rhinitis", "hay fever", "urticaria", "allergies", "itching"}

var allergyKeywords = []string{
	"allergy", "allergies", "allergic", "rash", "rashes",
	"itching", "itchy", "hives", "sneezing", "urticaria",
}

// IsAllergyQuery reports whether message mentions any allergy keyword.
func IsAllergyQuery(message string) bool {
	tokens := utils.Tokenize(message)
	for _, kw := range allergyKeywords {
		if utils.ContainsPhrase(message, tokens, kw) {
			return true
		}
	}
	return false
}

// Result is one qualifying medicine. Score is the mean relevance over the
// terms that matched.
type Result struct {
	Medicine models.Medicine
	Score    float64
	Matches  int
}

type Matcher struct {
	scorer *Scorer
	opts   Options
}

func New(sim Similarity, opts Options) *Matcher {
	return &Matcher{scorer: NewScorer(sim, opts), opts: opts}
}

// Options returns the thresholds the matcher was built with.
func (m *Matcher) Options() Options {
	return m.opts
}

// Match scores every in-stock medicine with at least one use against terms
// and returns the best TopK, one per name. Ranking is by mean relevance, then
// by how many terms matched; remaining ties keep catalog order.
func (m *Matcher) Match(medicines []models.Medicine, terms []string) []Result {
	if len(terms) == 0 {
		return nil
	}

	var results []Result
	for i := range medicines {
		med := medicines[i]
		if !med.InStock() {
			continue
		}
		uses := med.JoinedUses()
		if uses == "" {
			continue
		}

		var total float64
		matches := 0
		for _, term := range terms {
			if utils.IsStopword(term) {
				continue
			}
			if score := m.scorer.Score(term, uses); m.scorer.Matched(score) {
				total += score
				matches++
			}
		}
		if matches > 0 {
			results = append(results, Result{Medicine: med, Score: total / float64(matches), Matches: matches})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Matches > results[j].Matches
	})

	seen := make(map[string]bool)
	ranked := make([]Result, 0, m.opts.TopK)
	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Medicine.Name))
		if seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, r)
		if len(ranked) == m.opts.TopK {
			break
		}
	}
	return ranked
}
