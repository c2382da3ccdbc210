package model

import (
	"fmt"
	"strings"

	perrors "github.com/abgdnv/productstore/internal/product/errors"
)

// Category classifies a product. The numeric values are persisted and must never be reordered.
type Category int16

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = [...]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for i, name := range categoryNames {
		m[name] = Category(i)
	}
	return m
}()

// Categories returns every member of the enumeration in persisted order.
func Categories() []Category {
	all := make([]Category, len(categoryNames))
	for i := range categoryNames {
		all[i] = Category(i)
	}
	return all
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int16(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category name, ignoring case and surrounding whitespace.
func ParseCategory(name string) (Category, error) {
	c, ok := categoriesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return CategoryUnknown, &DataValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("%q is not a valid category", name),
			Err:    perrors.ErrUnknownCategory,
		}
	}
	return c, nil
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", perrors.ErrUnknownCategory, int16(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
