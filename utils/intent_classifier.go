package utils

import (
	"medicine-chatbot-backend/models"
)

type intentRule struct {
	intent   models.MessageIntent
	keywords []string
}

// IntentClassifier maps a message to the first intent whose keywords it
// contains. Rule order decides between overlapping intents.
type IntentClassifier struct {
	rules []intentRule
}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		rules: []intentRule{
			{models.IntentAddToCart, []string{
				"add to cart", "add to my cart", "add it", "add", "buy", "purchase",
			}},
			{models.IntentPrice, []string{
				"price", "prices", "cost", "costs", "how much", "rate", "mrp",
			}},
			{models.IntentDosage, []string{
				"dosage", "dose", "doses", "how to take", "how often", "how many times",
			}},
			{models.IntentSideEffects, []string{
				"side effect", "side effects", "adverse", "reaction",
			}},
			{models.IntentPrecautions, []string{
				"precaution", "precautions", "warning", "warnings", "avoid", "safe",
				"pregnant", "pregnancy",
			}},
			{models.IntentDelivery, []string{
				"delivery", "deliver", "shipping", "ship", "arrive", "when will",
			}},
			{models.IntentMedicineOverview, []string{
				"tell me about", "what is", "details", "detail", "information", "info",
				"overview", "uses", "used for",
			}},
			{models.IntentSymptoms, []string{
				"symptom", "symptoms", "i have", "suffering", "feel", "feeling",
				"pain", "ache", "fever", "cough", "cold", "headache", "sick",
			}},
		},
	}
}

func (ic *IntentClassifier) ClassifyIntent(message string) models.MessageIntent {
	tokens := Tokenize(message)
	if len(tokens) == 0 {
		return models.IntentUnknown
	}

	for _, rule := range ic.rules {
		if ic.containsAnyKeyword(message, tokens, rule.keywords) {
			return rule.intent
		}
	}
	return models.IntentUnknown
}

// Keywords lists the trigger phrases of each intent in evaluation order.
func (ic *IntentClassifier) Keywords() []IntentKeywords {
	out := make([]IntentKeywords, 0, len(ic.rules))
	for _, rule := range ic.rules {
		out = append(out, IntentKeywords{
			Intent:   rule.intent,
			Keywords: append([]string(nil), rule.keywords...),
		})
	}
	return out
}

type IntentKeywords struct {
	Intent   models.MessageIntent `json:"intent"`
	Keywords []string             `json:"keywords"`
}

func (ic *IntentClassifier) containsAnyKeyword(message string, tokens []string, keywords []string) bool {
	for _, keyword := range keywords {
		if ContainsPhrase(message, tokens, keyword) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether message contains any of phrases.
func ContainsAny(message string, phrases []string) bool {
	tokens := Tokenize(message)
	for _, p := range phrases {
		if ContainsPhrase(message, tokens, p) {
			return true
		}
	}
	return false
}
