package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productstore/internal/product/errors"
	"github.com/abgdnv/productstore/internal/product/model"
	"github.com/abgdnv/productstore/internal/product/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ ProductStore = (*PgStore)(nil)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	q *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		q: db.New(dbp),
	}
}

// Create inserts the product and writes the generated id back onto p.
func (s *PgStore) Create(ctx context.Context, p *model.Product) error {
	row, err := s.q.CreateProduct(ctx, db.CreateProductParams{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		Category:    int16(p.Category),
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	*p = toModel(row)
	return nil
}

// Update replaces all mutable fields of the stored product.
func (s *PgStore) Update(ctx context.Context, p *model.Product) error {
	if p.ID == 0 {
		return &model.DataValidationError{Field: "id", Reason: "is required to update a product", Err: perrors.ErrMissingID}
	}
	row, err := s.q.UpdateProduct(ctx, db.UpdateProductParams{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		Category:    int16(p.Category),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return perrors.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	*p = toModel(row)
	return nil
}

// Delete removes the product if present.
func (s *PgStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.q.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return nil
}

// Find retrieves a product by its id.
// Returns ErrProductNotFound if no product exists with the given id.
func (s *PgStore) Find(ctx context.Context, id int64) (*model.Product, error) {
	row, err := s.q.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	p := toModel(row)
	return &p, nil
}

func (s *PgStore) All(ctx context.Context) ([]model.Product, error) {
	rows, err := s.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return toModels(rows), nil
}

func (s *PgStore) FindByName(ctx context.Context, name string) ([]model.Product, error) {
	rows, err := s.q.ListProductsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by name: %w", err)
	}
	return toModels(rows), nil
}

func (s *PgStore) FindByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	rows, err := s.q.ListProductsByCategory(ctx, int16(category))
	if err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	return toModels(rows), nil
}

func (s *PgStore) FindByAvailability(ctx context.Context, available bool) ([]model.Product, error) {
	rows, err := s.q.ListProductsByAvailability(ctx, available)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by availability: %w", err)
	}
	return toModels(rows), nil
}

func (s *PgStore) FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.Product, error) {
	rows, err := s.q.ListProductsByPrice(ctx, price)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by price: %w", err)
	}
	return toModels(rows), nil
}

func toModel(row db.Product) model.Product {
	return model.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Available:   row.Available,
		Category:    model.Category(row.Category),
	}
}

func toModels(rows []db.Product) []model.Product {
	products := make([]model.Product, len(rows))
	for i, row := range rows {
		products[i] = toModel(row)
	}
	return products
}
