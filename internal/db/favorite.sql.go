package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const listFavorites = `-- name: ListFavorites :many
SELECT f.id, f.user_id, f.product_id, f.created_at,
	p.name, p.description, p.price, p.image_url
FROM favorites f
JOIN products p ON p.id = f.product_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC, f.id DESC
`

type ListFavoritesRow struct {
	Favorite
	ProductName        string
	ProductDescription string
	ProductPrice       decimal.Decimal
	ProductImageUrl    string
}

func (q *Queries) ListFavorites(ctx context.Context, userID int64) ([]ListFavoritesRow, error) {
	rows, err := q.db.Query(ctx, listFavorites, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListFavoritesRow
	for rows.Next() {
		var i ListFavoritesRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.ProductID,
			&i.CreatedAt,
			&i.ProductName,
			&i.ProductDescription,
			&i.ProductPrice,
			&i.ProductImageUrl,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertFavorite = `-- name: InsertFavorite :one
INSERT INTO favorites (user_id, product_id)
VALUES ($1, $2)
RETURNING id, created_at
`

type InsertFavoriteRow struct {
	ID        int64
	CreatedAt time.Time
}

func (q *Queries) InsertFavorite(ctx context.Context, userID, productID int64) (InsertFavoriteRow, error) {
	row := q.db.QueryRow(ctx, insertFavorite, userID, productID)
	var i InsertFavoriteRow
	err := row.Scan(&i.ID, &i.CreatedAt)
	return i, err
}

const deleteFavorite = `-- name: DeleteFavorite :execresult
DELETE FROM favorites
WHERE user_id = $1 AND product_id = $2
`

func (q *Queries) DeleteFavorite(ctx context.Context, userID, productID int64) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteFavorite, userID, productID)
}
