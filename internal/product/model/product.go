// Package model defines the Product record: its fields, category enumeration, price normalization,
// and the conversions between a record and its untyped JSON representation.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is the single entity managed by the service. ID is zero until the store assigns one.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"        validate:"required,max=100"`
	Description string          `json:"description" validate:"max=250"`
	Price       decimal.Decimal `json:"price"       validate:"gte=0,lt=1000000000000"`
	Available   bool            `json:"available"`
	Category    Category        `json:"category"    validate:"category"`
}

func (p *Product) String() string {
	return fmt.Sprintf("<Product %s id=[%d]>", p.Name, p.ID)
}

// Serialize projects the product into a plain map suitable for JSON encoding.
// The price is rendered with two decimals as the store keeps it, the category by name.
func (p *Product) Serialize() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(PriceScale),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Serialize())
}

// Deserialize replaces every mutable field from an untyped JSON object. All fields are required;
// the first missing or mistyped one is reported as a *DataValidationError and p is left untouched.
// The ID is never read from data.
func (p *Product) Deserialize(data map[string]any) error {
	if data == nil {
		return &DataValidationError{Field: "body", Reason: "must be a JSON object"}
	}

	name, err := requiredString(data, "name")
	if err != nil {
		return err
	}
	if name == "" {
		return &DataValidationError{Field: "name", Reason: "must not be empty"}
	}
	description, err := requiredString(data, "description")
	if err != nil {
		return err
	}
	price, err := requiredPrice(data)
	if err != nil {
		return err
	}
	available, err := requiredBool(data, "available")
	if err != nil {
		return err
	}
	categoryName, err := requiredString(data, "category")
	if err != nil {
		return err
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Available = available
	p.Category = category
	return nil
}

func requiredString(data map[string]any, field string) (string, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return "", missingField(field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", wrongType(field, "a string", raw)
	}
	return s, nil
}

func requiredBool(data map[string]any, field string) (bool, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return false, missingField(field)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, wrongType(field, "a boolean", raw)
	}
	return b, nil
}

// requiredPrice accepts the shapes a JSON decoder produces for a price: json.Number (decoder with
// UseNumber), float64, or a string that goes through ParsePrice.
func requiredPrice(data map[string]any) (decimal.Decimal, error) {
	raw, ok := data["price"]
	if !ok || raw == nil {
		return decimal.Zero, missingField("price")
	}
	var (
		price decimal.Decimal
		err   error
	)
	switch v := raw.(type) {
	case json.Number:
		price, err = ParsePrice(v.String())
	case string:
		price, err = ParsePrice(v)
	case float64:
		price = decimal.NewFromFloat(v)
	case int:
		price = decimal.NewFromInt(int64(v))
	case int64:
		price = decimal.NewFromInt(v)
	case decimal.Decimal:
		price = v
	default:
		return decimal.Zero, wrongType("price", "a number or a numeric string", raw)
	}
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsZero() {
		price = decimal.Zero
	}
	if !priceInRange(price) {
		return decimal.Zero, priceOutOfRange()
	}
	if err := checkPriceScale(price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}
