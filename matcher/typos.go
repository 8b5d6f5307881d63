package matcher

// CommonSymptoms are canonical spellings that misspelled terms are snapped to.
var CommonSymptoms = []string{
	"fever", "headache", "cough", "cold", "pain", "nausea", "vomiting",
	"diarrhea", "acidity", "constipation", "allergy", "insomnia", "anxiety",
	"infection", "inflammation", "itching", "rash", "flu", "migraine",
	"toothache", "indigestion", "sore throat", "body ache", "back pain",
}

// CorrectTypos appends the canonical form of every term that is close to a
// common symptom without already being one. The input terms are kept.
func CorrectTypos(sim Similarity, terms []string, threshold int) []string {
	out := append([]string(nil), terms...)
	have := make(map[string]bool, len(terms))
	for _, t := range terms {
		have[t] = true
	}

	for _, term := range terms {
		for _, canonical := range CommonSymptoms {
			if have[canonical] {
				continue
			}
			if sim.Ratio(term, canonical) >= threshold {
				have[canonical] = true
				out = append(out, canonical)
			}
		}
	}
	return out
}
