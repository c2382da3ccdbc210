// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMissingID       = errors.New("product has no id")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidPrice    = errors.New("invalid price")
)
