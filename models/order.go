package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending     = "Pending"
	DeliveryProcessing = "Processing"
)

// Order is a snapshot of a session's cart at checkout. Lines keep the unit
// price they were added at.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID      string             `bson:"session_id" json:"session_id"`
	Items          []CartItem         `bson:"items" json:"items"`
	TotalAmount    Money              `bson:"total_amount" json:"total_amount"`
	PaymentStatus  string             `bson:"payment_status" json:"payment_status"`
	DeliveryStatus string             `bson:"delivery_status" json:"delivery_status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// NewOrder copies the session's cart into a pending order.
func NewOrder(s *Session) *Order {
	snap := s.CartSnapshot()
	total := NewMoney(snap.TotalAmount())
	return &Order{
		SessionID:      s.SessionID,
		Items:          snap.Items,
		TotalAmount:    total,
		PaymentStatus:  PaymentPending,
		DeliveryStatus: DeliveryProcessing,
		CreatedAt:      time.Now().UTC(),
	}
}
