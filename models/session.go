package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnonymousSession is the key used when a request carries no identity.
const AnonymousSession = "anonymous"

// Session holds per-conversation state. It is read, mutated in memory and
// written back whole on every turn.
type Session struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID        string             `bson:"session_id" json:"session_id"`
	LastMedicine     string             `bson:"last_medicine,omitempty" json:"last_medicine,omitempty"`
	AwaitingQuantity bool               `bson:"awaiting_quantity" json:"awaiting_quantity"`
	PendingMedicines []string           `bson:"pending_medicines" json:"pending_medicines"`
	Cart             []CartItem         `bson:"cart" json:"cart"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity" json:"quantity"`
	Price    Money  `bson:"price" json:"price"`
	Image    string `bson:"image,omitempty" json:"image,omitempty"`
}

// LineTotal is quantity times unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot is the cart as returned to clients.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

// TotalAmount sums the line totals.
func (c *CartSnapshot) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func NewSession(key string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:        key,
		PendingMedicines: []string{},
		Cart:             []CartItem{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AwaitQuantity replaces any pending batch with names.
func (s *Session) AwaitQuantity(names []string) {
	s.AwaitingQuantity = true
	s.PendingMedicines = append([]string{}, names...)
}

func (s *Session) ClearPending() {
	s.AwaitingQuantity = false
	s.PendingMedicines = []string{}
}

func (s *Session) findItem(name string) int {
	for i, item := range s.Cart {
		if strings.EqualFold(item.Name, name) {
			return i
		}
	}
	return -1
}

// AddToCart increments an existing line for the same medicine or appends a new one.
func (s *Session) AddToCart(item CartItem) {
	if i := s.findItem(item.Name); i >= 0 {
		s.Cart[i].Quantity += item.Quantity
		return
	}
	s.Cart = append(s.Cart, item)
}

// SetQuantity overwrites a line's quantity, removing it when qty <= 0.
func (s *Session) SetQuantity(name string, qty int) bool {
	i := s.findItem(name)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
		return true
	}
	s.Cart[i].Quantity = qty
	return true
}

func (s *Session) RemoveFromCart(name string) bool {
	return s.SetQuantity(name, 0)
}

func (s *Session) ClearCart() {
	s.Cart = []CartItem{}
}

func (s *Session) CartSnapshot() *CartSnapshot {
	snap := &CartSnapshot{Items: append(make([]CartItem, 0, len(s.Cart)), s.Cart...)}
	snap.Total = snap.TotalAmount().StringFixed(2)
	return snap
}
