// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/productstore/internal/product/model"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// Lists come back ordered by id and are empty, never nil, when nothing matches.
type ProductStore interface {
	// Create inserts p and writes the id assigned by the store back onto it.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces every mutable field of the row with p.ID.
	// Returns a validation error wrapping ErrMissingID if p has no id,
	// ErrProductNotFound if no row has that id.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes the product with the given id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error

	// Find retrieves a single product by its id.
	// Returns ErrProductNotFound if no product exists with the given id.
	Find(ctx context.Context, id int64) (*model.Product, error)

	// All returns every product.
	All(ctx context.Context) ([]model.Product, error)

	// FindByName returns the products whose name equals name exactly (case-sensitive).
	FindByName(ctx context.Context, name string) ([]model.Product, error)

	// FindByCategory returns the products in the given category.
	FindByCategory(ctx context.Context, category model.Category) ([]model.Product, error)

	// FindByAvailability returns the products whose availability equals available.
	FindByAvailability(ctx context.Context, available bool) ([]model.Product, error)

	// FindByPrice returns the products whose price is numerically equal to price.
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.Product, error)
}
