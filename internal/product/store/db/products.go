package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Prices cross the wire as text so that NUMERIC values keep their exact decimal form.
const productColumns = `id, name, description, price::text, available, category`

const createProduct = `
INSERT INTO products (name, description, price, available, category)
VALUES ($1, $2, CAST($3::text AS NUMERIC), $4, $5)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    int16
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.Price.String(),
		arg.Available,
		arg.Category,
	)
	return scanProduct(row)
}

const updateProduct = `
UPDATE products
SET name        = $2,
    description = $3,
    price       = CAST($4::text AS NUMERIC),
    available   = $5,
    category    = $6
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    int16
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price.String(),
		arg.Available,
		arg.Category,
	)
	return scanProduct(row)
}

const deleteProduct = `DELETE FROM products WHERE id = $1`

// DeleteProduct returns the number of deleted rows.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getProduct = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const listProducts = `SELECT ` + productColumns + ` FROM products ORDER BY id`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return q.list(ctx, listProducts)
}

const listProductsByName = `SELECT ` + productColumns + ` FROM products WHERE name = $1 ORDER BY id`

func (q *Queries) ListProductsByName(ctx context.Context, name string) ([]Product, error) {
	return q.list(ctx, listProductsByName, name)
}

const listProductsByCategory = `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`

func (q *Queries) ListProductsByCategory(ctx context.Context, category int16) ([]Product, error) {
	return q.list(ctx, listProductsByCategory, category)
}

const listProductsByAvailability = `SELECT ` + productColumns + ` FROM products WHERE available = $1 ORDER BY id`

func (q *Queries) ListProductsByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return q.list(ctx, listProductsByAvailability, available)
}

const listProductsByPrice = `SELECT ` + productColumns + ` FROM products WHERE price = CAST($1::text AS NUMERIC) ORDER BY id`

// ListProductsByPrice matches on numeric equality, so 12.5 finds a row stored as 12.50.
func (q *Queries) ListProductsByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error) {
	return q.list(ctx, listProductsByPrice, price.String())
}

func (q *Queries) list(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Available,
		&p.Category,
	)
	return p, err
}
