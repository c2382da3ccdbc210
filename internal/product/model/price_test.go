package model

import (
	"testing"

	perrors "github.com/abgdnv/productstore/internal/product/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParsePrice(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "plain", input: "12.5", expected: "12.5"},
		{name: "two decimals", input: "12.50", expected: "12.5"},
		{name: "integer", input: "7", expected: "7"},
		{name: "surrounding whitespace", input: "  12.5\t", expected: "12.5"},
		{name: "double quoted", input: `"12.5"`, expected: "12.5"},
		{name: "single quoted", input: `'12.5'`, expected: "12.5"},
		{name: "padded and quoted", input: ` "12.5" `, expected: "12.5"},
		{name: "whitespace inside quotes", input: `" 12.5 "`, expected: "12.5"},
		{name: "only one layer of quotes is removed", input: `""12.5""`, expectError: true},
		{name: "mismatched quotes", input: `"12.5'`, expectError: true},
		{name: "empty", input: "", expectError: true},
		{name: "empty quotes", input: `""`, expectError: true},
		{name: "not a number", input: "twelve", expectError: true},
		{name: "largest stored value", input: "999999999999.99", expected: "999999999999.99"},
		{name: "trailing zeros", input: "12.500000", expected: "12.5"},
		{name: "zero with a huge exponent", input: "0e1000000000", expected: "0"},
		{name: "thirteen integer digits", input: "1000000000000", expectError: true},
		{name: "huge exponent", input: "1e10000000", expectError: true},
		{name: "huge negative exponent", input: "1e-1000000000", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			price, err := ParsePrice(tc.input)

			// then
			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, perrors.ErrInvalidPrice)
				var validationErr *DataValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "price", validationErr.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(price), "got %s", price)
		})
	}
}

func Test_ParsePrice_TextAndNativeFormsAgree(t *testing.T) {
	native := decimal.NewFromFloat(12.5)
	for _, raw := range []string{"12.5", "12.50", ` "12.5" `, "'12.50'"} {
		parsed, err := ParsePrice(raw)
		require.NoError(t, err)
		assert.True(t, native.Equal(parsed), "%q should equal %s", raw, native)
	}
}

func Test_checkPriceScale(t *testing.T) {
	assert.NoError(t, checkPriceScale(decimal.RequireFromString("12.50")))
	assert.NoError(t, checkPriceScale(decimal.RequireFromString("12.500")))
	assert.ErrorIs(t, checkPriceScale(decimal.RequireFromString("12.555")), perrors.ErrInvalidPrice)
}
