package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, image_url, stock, category, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ImageUrl,
		&i.Stock,
		&i.Category,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (name, description, price, image_url, stock, category, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at
`

type InsertProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageUrl    string
	Stock       int32
	Category    string
	Status      string
}

type InsertProductRow struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (InsertProductRow, error) {
	row := q.db.QueryRow(ctx, insertProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.Stock,
		arg.Category,
		arg.Status,
	)
	var i InsertProductRow
	err := row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + `
FROM products
WHERE ($1::boolean = false OR status = 'active')
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListProducts(ctx context.Context, onlyActive bool) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET name = $2, description = $3, price = $4, image_url = $5, stock = $6, category = $7, status = $8,
	updated_at = now()
WHERE id = $1
RETURNING updated_at
`

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageUrl    string
	Stock       int32
	Category    string
	Status      string
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (time.Time, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.Stock,
		arg.Category,
		arg.Status,
	)
	var updatedAt time.Time
	err := row.Scan(&updatedAt)
	return updatedAt, err
}

const deleteProduct = `-- name: DeleteProduct :execresult
DELETE FROM products
WHERE id = $1
`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteProduct, id)
}

const decrementStock = `-- name: DecrementStock :execresult
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1
`

// DecrementStock subtracts without any floor check.
func (q *Queries) DecrementStock(ctx context.Context, id int64, quantity int32) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, decrementStock, id, quantity)
}

const decrementStockGuarded = `-- name: DecrementStockGuarded :execresult
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`

func (q *Queries) DecrementStockGuarded(ctx context.Context, id int64, quantity int32) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, decrementStockGuarded, id, quantity)
}

const productExists = `-- name: ProductExists :one
SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)
`

func (q *Queries) ProductExists(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRow(ctx, productExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
