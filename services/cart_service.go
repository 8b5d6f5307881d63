package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
	"medicine-chatbot-backend/utils"
)

var (
	ErrCartItemNotFound  = errors.New("item not found in cart")
	ErrMissingIdentifier = errors.New("medicineId or name is required")
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
)

// "order" is left out so checkout phrases like "place order" reach the
// checkout branch.
var addToCartPhrases = []string{"add to cart", "add to my cart", "add", "buy", "purchase"}

// CartResult is the outcome of a cart-flow turn.
type CartResult struct {
	Response   *models.ChatResponse
	Quantities map[string]int
}

// CartService drives the quantity dialogue and the direct cart endpoints.
// Every change is a read-modify-write of the whole session document.
type CartService struct {
	medicines *MedicineService
	sessions  repository.SessionRepository
	sim       matcher.Similarity
	opts      matcher.Options
}

func NewCartService(medicines *MedicineService, sessions repository.SessionRepository, sim matcher.Similarity, opts matcher.Options) *CartService {
	if sim == nil {
		sim = matcher.Levenshtein{}
	}
	return &CartService{
		medicines: medicines,
		sessions:  sessions,
		sim:       sim,
		opts:      opts,
	}
}

// HandleMessage advances the session's cart state. It returns nil when the
// message is not part of the cart flow. The caller persists the session.
// A new add request replaces a batch that is still waiting for a quantity.
func (s *CartService) HandleMessage(ctx context.Context, session *models.Session, message string, names []string) (*CartResult, error) {
	pending := session.AwaitingQuantity && len(session.PendingMedicines) > 0
	if !utils.ContainsAny(message, addToCartPhrases) {
		if pending {
			return s.handleQuantity(ctx, session, message)
		}
		return nil, nil
	}

	candidates := matcher.BestMatches(s.sim, message, names, s.opts.NameSimilarity, s.opts.MaxCartCandidates)
	if len(candidates) == 0 {
		if pending {
			return s.handleQuantity(ctx, session, message)
		}
		return &CartResult{Response: models.NewActionResponse(
			"Sorry, I couldn't find that medicine. Please check the name and try again.",
			models.ActionNotFound,
		)}, nil
	}

	session.AwaitQuantity(candidates)
	resp := models.NewActionResponse(
		fmt.Sprintf("How many units of %s would you like to add to your cart?", strings.Join(candidates, ", ")),
		models.ActionAskQuantity,
	)
	resp.Candidates = candidates
	return &CartResult{Response: resp}, nil
}

func (s *CartService) handleQuantity(ctx context.Context, session *models.Session, message string) (*CartResult, error) {
	pending := append([]string{}, session.PendingMedicines...)

	qty, ok := utils.ParseQuantity(message)
	if !ok {
		resp := models.NewActionResponse(
			fmt.Sprintf("Please tell me how many units of %s you'd like, for example 2.", strings.Join(pending, ", ")),
			models.ActionAskQuantity,
		)
		resp.Candidates = pending
		return &CartResult{Response: resp}, nil
	}

	quantities := make(map[string]int, len(pending))
	for _, name := range pending {
		item, err := s.cartItem(ctx, name, qty)
		if err != nil {
			return nil, err
		}
		session.AddToCart(item)
		quantities[name] = qty
	}
	session.ClearPending()

	resp := models.NewActionResponse(
		fmt.Sprintf("Added %d x %s to your cart.", qty, strings.Join(pending, ", ")),
		models.ActionAddToCart,
	)
	resp.Cart = session.CartSnapshot()
	return &CartResult{Response: resp, Quantities: quantities}, nil
}

// cartItem prices a line at add time. A name that no longer resolves is
// added at price 0.
func (s *CartService) cartItem(ctx context.Context, name string, qty int) (models.CartItem, error) {
	item := models.CartItem{Name: name, Quantity: qty}

	m, err := s.medicines.FindByName(ctx, name)
	if errors.Is(err, ErrMedicineNotFound) {
		return item, nil
	}
	if err != nil {
		return item, fmt.Errorf("failed to price %q: %w", name, err)
	}

	item.Price = models.NewMoney(m.UnitPrice())
	item.Image = m.ImageURL
	return item, nil
}

// Get returns the session's cart.
func (s *CartService) Get(ctx context.Context, key string) (*models.CartSnapshot, error) {
	session, err := s.sessions.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return session.CartSnapshot(), nil
}

// Add resolves the medicine by id or name and adds quantity units, default 1.
func (s *CartService) Add(ctx context.Context, key string, req models.CartRequest) (*models.CartSnapshot, error) {
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	m, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, key, func(session *models.Session) error {
		session.AddToCart(models.CartItem{
			Name:     m.Name,
			Quantity: qty,
			Price:    models.NewMoney(m.UnitPrice()),
			Image:    m.ImageURL,
		})
		return nil
	})
}

// Update overwrites a line's quantity; zero or less removes the line.
func (s *CartService) Update(ctx context.Context, key string, req models.CartRequest) (*models.CartSnapshot, error) {
	if req.Quantity == nil {
		return nil, ErrInvalidQuantity
	}
	name, err := s.lineName(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, key, func(session *models.Session) error {
		if !session.SetQuantity(name, *req.Quantity) {
			return ErrCartItemNotFound
		}
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, key string, req models.CartRequest) (*models.CartSnapshot, error) {
	name, err := s.lineName(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, key, func(session *models.Session) error {
		if !session.RemoveFromCart(name) {
			return ErrCartItemNotFound
		}
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, key string) (*models.CartSnapshot, error) {
	return s.mutate(ctx, key, func(session *models.Session) error {
		session.ClearCart()
		return nil
	})
}

func (s *CartService) mutate(ctx context.Context, key string, fn func(*models.Session) error) (*models.CartSnapshot, error) {
	session, err := s.sessions.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session.CartSnapshot(), nil
}

func (s *CartService) lookup(ctx context.Context, req models.CartRequest) (*models.Medicine, error) {
	switch {
	case strings.TrimSpace(req.MedicineID) != "":
		return s.medicines.GetByID(ctx, strings.TrimSpace(req.MedicineID))
	case strings.TrimSpace(req.Name) != "":
		return s.medicines.FindByName(ctx, req.Name)
	default:
		return nil, ErrMissingIdentifier
	}
}

// lineName names the cart line a request refers to. A plain name is used as
// is so lines for medicines that left the catalog can still be edited.
func (s *CartService) lineName(ctx context.Context, req models.CartRequest) (string, error) {
	if name := strings.TrimSpace(req.Name); name != "" {
		return name, nil
	}
	m, err := s.lookup(ctx, req)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}
