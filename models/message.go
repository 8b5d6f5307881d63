package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageIntent string

const (
	IntentAddToCart        MessageIntent = "ADD_TO_CART"
	IntentPrice            MessageIntent = "PRICE"
	IntentDosage           MessageIntent = "DOSAGE"
	IntentSideEffects      MessageIntent = "SIDE_EFFECTS"
	IntentPrecautions      MessageIntent = "PRECAUTIONS"
	IntentDelivery         MessageIntent = "DELIVERY"
	IntentMedicineOverview MessageIntent = "MEDICINE_OVERVIEW"
	IntentSymptoms         MessageIntent = "SYMPTOMS"
	IntentUnknown          MessageIntent = "UNKNOWN"
)

// ActionType tags replies produced by the cart flow.
type ActionType string

const (
	ActionAskQuantity       ActionType = "ASK_QUANTITY"
	ActionAddToCart         ActionType = "ADD_TO_CART"
	ActionNotFound          ActionType = "NOT_FOUND"
	ActionProceedToCheckout ActionType = "PROCEED_TO_CHECKOUT"
)

// ChatTurn is one persisted request/reply pair. Turns are append-only.
type ChatTurn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"`
	UserMessage string             `bson:"user_message" json:"user_message"`
	BotMessage  string             `bson:"bot_message" json:"bot_message"`
	Medicines   []string           `bson:"medicines" json:"medicines"`
	Quantities  map[string]int     `bson:"quantities,omitempty" json:"quantities,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// HistoryEntry is a single chat bubble as the frontend renders it.
type HistoryEntry struct {
	Text string `json:"text"`
	From string `json:"from"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"-"`
}

type ChatResponse struct {
	Message    string          `json:"message"`
	Intent     MessageIntent   `json:"intent,omitempty"`
	Type       ActionType      `json:"type,omitempty"`
	Medicines  []MedicineMatch `json:"medicines,omitempty"`
	Candidates []string        `json:"candidates,omitempty"`
	Cart       *CartSnapshot   `json:"cart,omitempty"`
	Redirect   string          `json:"redirect,omitempty"`
}

// CartRequest is the body of the direct cart endpoints.
type CartRequest struct {
	MedicineID string `json:"medicineId"`
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity"`
}

// NewTextResponse creates a plain message reply.
func NewTextResponse(text string, intent MessageIntent) *ChatResponse {
	return &ChatResponse{
		Message: text,
		Intent:  intent,
	}
}

// NewActionResponse creates a typed cart-flow reply.
func NewActionResponse(text string, action ActionType) *ChatResponse {
	return &ChatResponse{
		Message: text,
		Intent:  IntentAddToCart,
		Type:    action,
	}
}

// ReferencedMedicines lists the medicine names a reply talks about, for the chat log.
func (r *ChatResponse) ReferencedMedicines() []string {
	names := []string{}
	for _, m := range r.Medicines {
		names = append(names, m.Name)
	}
	names = append(names, r.Candidates...)
	if r.Cart != nil && len(r.Medicines) == 0 && len(r.Candidates) == 0 {
		for _, item := range r.Cart.Items {
			names = append(names, item.Name)
		}
	}
	return names
}
