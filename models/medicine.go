package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine is a catalog document from the medicines collection. Uses are the
// indication phrases the matcher scores symptoms against.
type Medicine struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Use0         string             `bson:"use0,omitempty" json:"use0,omitempty"`
	Use1         string             `bson:"use1,omitempty" json:"use1,omitempty"`
	Use2         string             `bson:"use2,omitempty" json:"use2,omitempty"`
	Use3         string             `bson:"use3,omitempty" json:"use3,omitempty"`
	Use4         string             `bson:"use4,omitempty" json:"use4,omitempty"`
	Dosage       string             `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Price        Price              `bson:"price,omitempty" json:"price"`
	PriceNumeric *float64           `bson:"priceNumeric,omitempty" json:"priceNumeric,omitempty"`
	DeliveryTime string             `bson:"delivery_time,omitempty" json:"delivery_time,omitempty"`
	InStockFlag  *bool              `bson:"in_stock,omitempty" json:"in_stock,omitempty"`
	Availability string             `bson:"availability,omitempty" json:"availability,omitempty"`
	SideEffects  []string           `bson:"side_effects,omitempty" json:"side_effects,omitempty"`
	Precautions  []string           `bson:"precautions,omitempty" json:"precautions,omitempty"`
	Alternatives []string           `bson:"alternativeMedicines,omitempty" json:"alternativeMedicines,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	Manufacturer string             `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	ImageURL     string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// Uses returns the non-empty indication phrases in use0..use4 order.
func (m *Medicine) Uses() []string {
	var uses []string
	for _, u := range []string{m.Use0, m.Use1, m.Use2, m.Use3, m.Use4} {
		if u = strings.TrimSpace(u); u != "" {
			uses = append(uses, u)
		}
	}
	return uses
}

// JoinedUses is the lower-cased text the relevance scorer runs against.
func (m *Medicine) JoinedUses() string {
	return strings.ToLower(strings.Join(m.Uses(), " "))
}

// InStock treats a missing flag as in stock, like the catalog schema default.
func (m *Medicine) InStock() bool {
	if m.InStockFlag != nil && !*m.InStockFlag {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(m.Availability), "out of stock")
}

// AvailabilityLabel is what the chat listing shows next to a medicine.
func (m *Medicine) AvailabilityLabel() string {
	if m.Availability != "" {
		return m.Availability
	}
	if m.InStock() {
		return "In Stock"
	}
	return "Out of Stock"
}

// UnitPrice resolves the price used for cart lines: the numeric field first,
// then the stored price, then 0.
func (m *Medicine) UnitPrice() decimal.Decimal {
	if m.PriceNumeric != nil && *m.PriceNumeric > 0 {
		return decimal.NewFromFloat(*m.PriceNumeric)
	}
	if d, ok := m.Price.Numeric(); ok {
		return d
	}
	return decimal.Zero
}

// MedicineMatch is one ranked entry of a symptom recommendation.
type MedicineMatch struct {
	Name         string  `json:"name"`
	Dosage       string  `json:"dosage,omitempty"`
	Price        string  `json:"price,omitempty"`
	Delivery     string  `json:"delivery_time,omitempty"`
	Score        float64 `json:"score"`
	Availability string  `json:"availability"`
}
