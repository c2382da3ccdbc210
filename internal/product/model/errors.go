package model

import "fmt"

// DataValidationError reports a product payload that is missing a field or carries a badly typed value.
type DataValidationError struct {
	Field  string
	Reason string
	// Err is an optional sentinel from the product errors package.
	Err error
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("invalid product: %s %s", e.Field, e.Reason)
}

func (e *DataValidationError) Unwrap() error {
	return e.Err
}

func missingField(field string) *DataValidationError {
	return &DataValidationError{Field: field, Reason: "is required"}
}

func wrongType(field, expected string, got any) *DataValidationError {
	return &DataValidationError{Field: field, Reason: fmt.Sprintf("must be %s, got %T", expected, got)}
}
