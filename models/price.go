package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrencySymbol prefixes prices that are stored as plain numbers.
const CurrencySymbol = "₹"

var priceNumberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// Price is the catalog price of a medicine. Older catalog documents store it
// as a number, newer ones as a display string such as "₹50 for 10 tablets".
type Price struct {
	Display   string
	Amount    decimal.Decimal
	HasAmount bool
}

func NumericPrice(v float64) Price {
	return Price{Amount: decimal.NewFromFloat(v), HasAmount: true}
}

func DisplayPrice(s string) Price {
	return Price{Display: s}
}

func (p Price) IsZero() bool {
	return p.Display == "" && !p.HasAmount
}

// String renders the price for chat replies.
func (p Price) String() string {
	if p.Display != "" {
		return p.Display
	}
	if p.HasAmount {
		return CurrencySymbol + p.Amount.String()
	}
	return ""
}

// Numeric returns the amount, parsing the display string when no number was
// stored. The second value is false when nothing could be resolved.
func (p Price) Numeric() (decimal.Decimal, bool) {
	if p.HasAmount {
		return p.Amount, true
	}
	return ParsePriceText(p.Display)
}

// ParsePriceText strips currency symbols and units and returns the first
// number in s.
func ParsePriceText(s string) (decimal.Decimal, bool) {
	raw := priceNumberPattern.FindString(strings.ReplaceAll(s, ",", ""))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.Display != "" {
		return bson.MarshalValue(p.Display)
	}
	if p.HasAmount {
		return bson.MarshalValue(p.Amount.InexactFloat64())
	}
	return bson.MarshalValue(nil)
}

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Double:
		*p = NumericPrice(rv.Double())
	case bsontype.Int32:
		*p = Price{Amount: decimal.NewFromInt32(rv.Int32()), HasAmount: true}
	case bsontype.Int64:
		*p = Price{Amount: decimal.NewFromInt(rv.Int64()), HasAmount: true}
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode decimal price: %w", err)
		}
		*p = Price{Amount: d, HasAmount: true}
	case bsontype.String:
		*p = DisplayPrice(rv.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*p = Price{}
	default:
		return fmt.Errorf("unsupported price type %s", t)
	}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Display != "" {
		return json.Marshal(p.Display)
	}
	if p.HasAmount {
		return json.Marshal(p.Amount.InexactFloat64())
	}
	return []byte("null"), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*p = Price{}
	case float64:
		*p = NumericPrice(x)
	case string:
		*p = DisplayPrice(x)
	default:
		return fmt.Errorf("unsupported price value %s", string(data))
	}
	return nil
}

// Money is an exact amount. It is stored as Decimal128 and rendered as a
// JSON number.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func MoneyFromFloat(v float64) Money {
	return Money{Decimal: decimal.NewFromFloat(v)}
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode money: %w", err)
	}
	return bson.MarshalValue(d)
}

// UnmarshalBSONValue also accepts the plain numbers older sessions stored.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode money: %w", err)
		}
		*m = NewMoney(d)
	case bsontype.Double:
		*m = MoneyFromFloat(rv.Double())
	case bsontype.Int32:
		*m = NewMoney(decimal.NewFromInt32(rv.Int32()))
	case bsontype.Int64:
		*m = NewMoney(decimal.NewFromInt(rv.Int64()))
	case bsontype.String:
		d, err := decimal.NewFromString(rv.StringValue())
		if err != nil {
			return fmt.Errorf("decode money: %w", err)
		}
		*m = NewMoney(d)
	case bsontype.Null, bsontype.Undefined:
		*m = Money{}
	default:
		return fmt.Errorf("unsupported money type %s", t)
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	*m = NewMoney(d)
	return nil
}
