package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxSymptoms bounds how many terms are handed to the matcher.
const DefaultMaxSymptoms = 10

var symptomWordPattern = regexp.MustCompile(`\b[a-z]{3,15}\b`)

// stopwords are skipped by symptom extraction and scoring.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"will": true, "would": true, "could": true, "should": true, "can": true,
	"not": true, "and": true, "or": true, "but": true, "if": true,
	"for": true, "from": true, "in": true, "into": true, "of": true,
	"on": true, "to": true, "with": true, "about": true, "it": true,
	"its": true, "this": true, "that": true, "what": true, "which": true,
	"who": true, "how": true, "when": true, "where": true, "why": true,
	"you": true, "me": true, "i": true, "my": true, "your": true,
	"we": true, "they": true, "am": true, "also": true, "very": true,
	"feel": true, "feeling": true, "suffering": true, "need": true, "want": true,
	"some": true, "something": true, "any": true, "please": true, "get": true,
	"got": true, "since": true, "today": true, "medicine": true, "medicines": true,
	"suggest": true, "recommend": true, "help": true, "give": true, "tell": true,
	"really": true, "bad": true, "there": true, "take": true,
}

// IsStopword reports whether term carries no symptom meaning.
func IsStopword(term string) bool {
	return stopwords[strings.ToLower(strings.TrimSpace(term))]
}

// Tokenize lower-cases text and splits it into alphanumeric words.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsPhrase checks phrase against a message and its tokens. Single words
// must equal a token; longer phrases must match a run of whole tokens.
func ContainsPhrase(message string, tokens []string, phrase string) bool {
	words := Tokenize(phrase)
	switch len(words) {
	case 0:
		return false
	case 1:
		for _, t := range tokens {
			if t == words[0] {
				return true
			}
		}
		return false
	default:
		return strings.Contains(" "+strings.Join(tokens, " ")+" ", " "+strings.Join(words, " ")+" ")
	}
}

// ExtractSymptoms collects candidate symptom terms from text: vocabulary
// phrases found in it, then any remaining 3-15 letter words. The result is
// deduplicated, free of stopwords and at most max entries long.
func ExtractSymptoms(text string, phrases []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxSymptoms
	}

	lower := strings.ToLower(text)
	tokens := Tokenize(lower)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var terms []string
	add := func(term string) bool {
		if term == "" || seen[term] || IsStopword(term) {
			return len(terms) < max
		}
		seen[term] = true
		terms = append(terms, term)
		return len(terms) < max
	}

	for _, p := range phrases {
		if ContainsPhrase(lower, tokens, p) {
			if !add(strings.Join(Tokenize(p), " ")) {
				return terms
			}
		}
	}
	for _, w := range symptomWordPattern.FindAllString(lower, -1) {
		if !add(w) {
			return terms
		}
	}
	return terms
}
