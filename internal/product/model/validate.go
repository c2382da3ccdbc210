package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands Product: field errors are named after the
// JSON keys, decimals compare as numbers and the "category" rule checks enumeration membership.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(Category)
		return ok && c.Valid()
	}); err != nil {
		panic(fmt.Sprintf("failed to register category validation: %v", err))
	}
	return v
}

// Validate checks the field constraints of p and reports the first violation as a *DataValidationError.
func Validate(v *validator.Validate, p *Product) error {
	err := v.Struct(p)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		return &DataValidationError{Field: fieldErr.Field(), Reason: "failed on rule: " + fieldErr.Tag()}
	}
	return fmt.Errorf("failed to validate product: %w", err)
}
