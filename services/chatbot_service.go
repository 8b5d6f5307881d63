package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
	"medicine-chatbot-backend/utils"
)

// CheckoutRedirect is where the frontend goes when the user asks to check out.
const CheckoutRedirect = "/cart"

const fallbackMessage = "I'm sorry, I couldn't find a medicine for that. " +
	"Could you describe your symptoms or tell me the name of the medicine?"

var ErrEmptyMessage = errors.New("message is required")

var checkoutPhrases = []string{"checkout", "check out", "proceed to checkout", "place order", "pay now"}

type ChatbotService struct {
	sessions         repository.SessionRepository
	chats            repository.ChatRepository
	catalog          matcher.CatalogSource
	medicines        *MedicineService
	carts            *CartService
	orders           *OrderService
	matcher          *matcher.Matcher
	sim              matcher.Similarity
	vocab            *matcher.Vocabulary
	intentClassifier *utils.IntentClassifier
}

func NewChatbotService(repos *repository.Repositories, vocab *matcher.Vocabulary, sim matcher.Similarity, opts matcher.Options) *ChatbotService {
	if sim == nil {
		sim = matcher.Levenshtein{}
	}
	medicines := NewMedicineService(repos.Medicines)
	return &ChatbotService{
		sessions:         repos.Sessions,
		chats:            repos.Chats,
		catalog:          repos.Medicines,
		medicines:        medicines,
		carts:            NewCartService(medicines, repos.Sessions, sim, opts),
		orders:           NewOrderService(repos.Sessions, repos.Orders),
		matcher:          matcher.New(sim, opts),
		sim:              sim,
		vocab:            vocab,
		intentClassifier: utils.NewIntentClassifier(),
	}
}

func (s *ChatbotService) Medicines() *MedicineService {
	return s.medicines
}

func (s *ChatbotService) Carts() *CartService {
	return s.carts
}

func (s *ChatbotService) Orders() *OrderService {
	return s.orders
}

// ProcessMessage runs one dialogue turn. Branches are tried in order and the
// first one that produces a reply wins; every reply is logged to the chat
// history before it is returned.
func (s *ChatbotService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	key := req.SessionID
	if key == "" {
		key = models.AnonymousSession
	}

	session, err := s.sessions.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	catalog, err := s.medicines.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	names := medicineNames(catalog)

	cart, err := s.carts.HandleMessage(ctx, session, message, names)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return s.finish(ctx, session, message, cart.Response, cart.Quantities)
	}

	if utils.ContainsAny(message, checkoutPhrases) {
		return s.finish(ctx, session, message, &models.ChatResponse{
			Message:  "Taking you to your cart to complete the checkout.",
			Type:     models.ActionProceedToCheckout,
			Redirect: CheckoutRedirect,
			Cart:     session.CartSnapshot(),
		}, nil)
	}

	intent := s.intentClassifier.ClassifyIntent(message)

	opts := s.matcher.Options()
	if mentioned := matcher.BestMatches(s.sim, message, names, opts.NameSimilarity, 1); len(mentioned) > 0 {
		session.LastMedicine = mentioned[0]
	}

	if session.LastMedicine != "" && intent != models.IntentUnknown && intent != models.IntentSymptoms {
		text, ok, err := s.medicines.Detail(ctx, session.LastMedicine, intent)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.finish(ctx, session, message, models.NewTextResponse(text, intent), nil)
		}
	}

	if results := s.recommend(message, catalog); len(results) > 0 {
		session.LastMedicine = results[0].Medicine.Name
		resp := models.NewTextResponse(formatListing(results), models.IntentSymptoms)
		resp.Medicines = toMatches(results)
		return s.finish(ctx, session, message, resp, nil)
	}

	return s.finish(ctx, session, message, models.NewTextResponse(fallbackMessage, intent), nil)
}

// recommend ranks in-stock medicines for the symptoms described in message.
func (s *ChatbotService) recommend(message string, catalog []models.Medicine) []matcher.Result {
	opts := s.matcher.Options()
	terms := utils.ExtractSymptoms(message, s.vocab.Phrases(), opts.MaxTerms)
	terms = matcher.CorrectTypos(s.sim, terms, opts.TypoSimilarity)
	if matcher.IsAllergyQuery(message) {
		terms = append([]string{}, matcher.AllergyTerms...)
	}

	log := logger.With("chatbot")
	log.Debug().Strs("terms", terms).Msg("Extracted symptom terms")

	var inStock []matcher.Result
	for _, r := range s.matcher.Match(catalog, terms) {
		if r.Medicine.InStock() {
			inStock = append(inStock, r)
		}
	}
	return inStock
}

func (s *ChatbotService) finish(ctx context.Context, session *models.Session, message string, resp *models.ChatResponse, quantities map[string]int) (*models.ChatResponse, error) {
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	turn := &models.ChatTurn{
		SessionID:   session.SessionID,
		UserMessage: message,
		BotMessage:  resp.Message,
		Medicines:   resp.ReferencedMedicines(),
		Quantities:  quantities,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.chats.Append(ctx, turn); err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Str("session", session.SessionID).
		Str("intent", string(resp.Intent)).
		Str("type", string(resp.Type)).
		Msg("Chat turn processed")
	return resp, nil
}

// History returns the session's conversation as alternating user and bot entries.
func (s *ChatbotService) History(ctx context.Context, key string, limit int) ([]models.HistoryEntry, error) {
	turns, err := s.chats.History(ctx, key, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, 2*len(turns))
	for _, t := range turns {
		entries = append(entries,
			models.HistoryEntry{Text: t.UserMessage, From: "user"},
			models.HistoryEntry{Text: t.BotMessage, From: "bot"},
		)
	}
	return entries, nil
}

// RefreshVocabulary rebuilds the phrase cache from the catalog and returns its size.
func (s *ChatbotService) RefreshVocabulary(ctx context.Context) (int, error) {
	if err := s.vocab.Refresh(ctx, s.catalog); err != nil {
		return 0, err
	}
	return s.vocab.Size(), nil
}

func (s *ChatbotService) SupportedIntents() []utils.IntentKeywords {
	return s.intentClassifier.Keywords()
}

func medicineNames(catalog []models.Medicine) []string {
	names := make([]string, 0, len(catalog))
	for _, m := range catalog {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

func formatListing(results []matcher.Result) string {
	var b strings.Builder
	b.WriteString("Here are some medicines that may help:\n")
	for i, r := range results {
		m := r.Medicine
		fmt.Fprintf(&b, "\n%d. %s", i+1, m.Name)
		if m.Dosage != "" {
			fmt.Fprintf(&b, " | Dosage: %s", m.Dosage)
		}
		if price := priceText(&m); price != "" {
			fmt.Fprintf(&b, " | Price: %s", price)
		}
		if m.DeliveryTime != "" {
			fmt.Fprintf(&b, " | Delivery: %s", m.DeliveryTime)
		}
		fmt.Fprintf(&b, " | %s", m.AvailabilityLabel())
	}
	return b.String()
}

func toMatches(results []matcher.Result) []models.MedicineMatch {
	matches := make([]models.MedicineMatch, 0, len(results))
	for _, r := range results {
		m := r.Medicine
		matches = append(matches, models.MedicineMatch{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Price:        priceText(&m),
			Delivery:     m.DeliveryTime,
			Score:        math.Round(r.Score*100) / 100,
			Availability: m.AvailabilityLabel(),
		})
	}
	return matches
}
