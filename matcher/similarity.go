// Package matcher ranks catalog medicines against symptom terms.
package matcher

import (
	"math"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity compares two strings on a 0-100 scale.
type Similarity interface {
	// Ratio compares the whole of a against the whole of b.
	Ratio(a, b string) int
	// PartialRatio scores the best alignment of the shorter string inside the longer one.
	PartialRatio(a, b string) int
}

// Levenshtein is the default Similarity, based on edit distance.
type Levenshtein struct{}

func (Levenshtein) Ratio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 100
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(distance)/float64(maxLen))))
}

func (l Levenshtein) PartialRatio(a, b string) int {
	short, long := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0
	s := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		r := l.Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// BestMatches returns up to limit candidates whose similarity to text is at
// least threshold, best first. Equal scores keep candidate order. A candidate
// is searched for inside text; when text is shorter than the candidate the
// whole strings are compared, so "ok" does not match "Okacet".
func BestMatches(sim Similarity, text string, candidates []string, threshold, limit int) []string {
	type scored struct {
		name  string
		score int
	}

	text = strings.ToLower(text)
	var hits []scored
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c))
		var s int
		if len([]rune(name)) > len([]rune(text)) {
			s = sim.Ratio(name, text)
		} else {
			s = sim.PartialRatio(name, text)
		}
		if s >= threshold {
			hits = append(hits, scored{name: c, score: s})
		}
	}

	// insertion sort keeps it stable
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].score > hits[j-1].score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, h := range hits {
		key := strings.ToLower(h.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h.name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
