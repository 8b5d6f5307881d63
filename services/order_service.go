package services

import (
	"context"
	"errors"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderService turns a session's cart into an order. The catalog is not
// touched: stock levels are maintained outside this service.
type OrderService struct {
	sessions repository.SessionRepository
	orders   repository.OrderRepository
}

func NewOrderService(sessions repository.SessionRepository, orders repository.OrderRepository) *OrderService {
	return &OrderService{sessions: sessions, orders: orders}
}

// Place snapshots the cart into a pending order and empties the cart.
func (s *OrderService) Place(ctx context.Context, key string) (*models.Order, error) {
	session, err := s.sessions.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(session.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.NewOrder(session)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	session.ClearCart()
	session.ClearPending()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	log := logger.With("orders")
	log.Info().
		Str("session", key).
		Str("order", order.ID.Hex()).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("Order placed")
	return order, nil
}

func (s *OrderService) List(ctx context.Context, key string) ([]models.Order, error) {
	return s.orders.ListBySession(ctx, key)
}
