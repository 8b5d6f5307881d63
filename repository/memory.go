package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicine-chatbot-backend/models"
)

type MemoryMedicineRepository struct {
	mu        sync.RWMutex
	medicines []models.Medicine
}

func NewMemoryMedicineRepository(medicines ...models.Medicine) *MemoryMedicineRepository {
	r := &MemoryMedicineRepository{}
	for _, m := range medicines {
		if m.ID.IsZero() {
			m.ID = primitive.NewObjectID()
		}
		r.medicines = append(r.medicines, m)
	}
	return r
}

func (r *MemoryMedicineRepository) ListAll(ctx context.Context) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Medicine{}, r.medicines...), nil
}

func (r *MemoryMedicineRepository) FindByName(ctx context.Context, name string) (*models.Medicine, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.medicines {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			found := m
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMedicineRepository) FindByID(ctx context.Context, id string) (*models.Medicine, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.medicines {
		if m.ID == oid {
			found := m
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMedicineRepository) UpsertMany(ctx context.Context, medicines []models.Medicine) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range medicines {
		replaced := false
		for i := range r.medicines {
			if r.medicines[i].Name == m.Name {
				m.ID = r.medicines[i].ID
				r.medicines[i] = m
				replaced = true
				break
			}
		}
		if !replaced {
			m.ID = primitive.NewObjectID()
			r.medicines = append(r.medicines, m)
		}
	}
	return len(medicines), nil
}

type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

func (r *MemorySessionRepository) Load(ctx context.Context, key string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[key]
	if !ok {
		return models.NewSession(key), nil
	}
	session := copySession(stored)
	return &session, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.UpdatedAt = time.Now().UTC()
	r.sessions[session.SessionID] = copySession(*session)
	return nil
}

// copySession detaches the slices so callers never share state with the store.
func copySession(s models.Session) models.Session {
	s.PendingMedicines = append([]string{}, s.PendingMedicines...)
	s.Cart = append([]models.CartItem{}, s.Cart...)
	return s
}

type MemoryChatRepository struct {
	mu    sync.RWMutex
	turns []models.ChatTurn
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{}
}

func (r *MemoryChatRepository) Append(ctx context.Context, turn *models.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if turn.ID.IsZero() {
		turn.ID = primitive.NewObjectID()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	r.turns = append(r.turns, *turn)
	return nil
}

func (r *MemoryChatRepository) History(ctx context.Context, key string, limit int) ([]models.ChatTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	turns := []models.ChatTurn{}
	for _, t := range r.turns {
		if t.SessionID == key {
			turns = append(turns, t)
		}
	}
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].Timestamp.Before(turns[j].Timestamp)
	})
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	stored := *order
	stored.Items = append([]models.CartItem{}, order.Items...)
	r.orders = append(r.orders, stored)
	return nil
}

func (r *MemoryOrderRepository) ListBySession(ctx context.Context, key string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].SessionID == key {
			orders = append(orders, r.orders[i])
		}
	}
	return orders, nil
}
