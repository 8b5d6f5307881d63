package matcher

import "strings"

// Scorer computes the relevance of one symptom term against a medicine's
// joined, lower-cased indication phrases.
type Scorer struct {
	sim  Similarity
	opts Options
}

func NewScorer(sim Similarity, opts Options) *Scorer {
	if sim == nil {
		sim = Levenshtein{}
	}
	return &Scorer{sim: sim, opts: opts}
}

// Score adds three signals: verbatim containment, partial similarity (full
// weight above the strong cutoff, reduced weight above the weak one) and
// containment of the term with a trailing "s" removed.
func (s *Scorer) Score(term, joinedUses string) float64 {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || joinedUses == "" {
		return 0
	}

	var score float64
	if strings.Contains(joinedUses, term) {
		score += s.opts.ExactBonus
	}

	partial := s.sim.PartialRatio(term, joinedUses)
	switch {
	case partial >= s.opts.StrongSimilarity:
		score += float64(partial)
	case partial >= s.opts.WeakSimilarity:
		score += float64(partial) * s.opts.WeakWeight
	}

	if stem := strings.TrimSuffix(term, "s"); stem != "" && strings.Contains(joinedUses, stem) {
		score += s.opts.StemBonus
	}
	return score
}

// Matched reports whether a score clears the relevance cutoff. The cutoff
// itself does not count.
func (s *Scorer) Matched(score float64) bool {
	return score > s.opts.RelevanceCutoff
}
