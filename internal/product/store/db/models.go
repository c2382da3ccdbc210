package db

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    int16
}
