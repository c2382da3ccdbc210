package model

import (
	"fmt"
	"strings"

	perrors "github.com/abgdnv/productstore/internal/product/errors"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits the store keeps for a price.
const PriceScale = 2

const (
	// maxPriceIntegerDigits matches NUMERIC(14,2): fourteen digits, two of them after the point.
	maxPriceIntegerDigits = 12
	// maxPriceFractionDigits bounds trailing zeros such as "12.5000".
	maxPriceFractionDigits = 32
)

// ParsePrice normalizes a textual price: surrounding whitespace is trimmed, then one layer of
// matching single or double quotes is removed before the value is parsed as a decimal.
// Every price that enters the system from text goes through here.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return decimal.Zero, invalidPrice(raw, "is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalidPrice(raw, "is not a decimal number")
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if !priceInRange(d) {
		return decimal.Zero, invalidPrice(raw, "is out of range")
	}
	return d, nil
}

// priceInRange looks at the exponent and digit count only: rounding or printing a decimal with
// a large exponent writes out every digit.
func priceInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := int(d.Exponent())
	return exp >= -maxPriceFractionDigits && d.NumDigits()+exp <= maxPriceIntegerDigits
}

// checkPriceScale rejects prices the store would have to round.
func checkPriceScale(d decimal.Decimal) error {
	if !d.Equal(d.Round(PriceScale)) {
		return invalidPrice(d.String(), fmt.Sprintf("has more than %d decimal places", PriceScale))
	}
	return nil
}

func invalidPrice(raw, reason string) *DataValidationError {
	return &DataValidationError{
		Field:  "price",
		Reason: fmt.Sprintf("%q %s", raw, reason),
		Err:    perrors.ErrInvalidPrice,
	}
}

func priceOutOfRange() *DataValidationError {
	return &DataValidationError{Field: "price", Reason: "is out of range", Err: perrors.ErrInvalidPrice}
}
