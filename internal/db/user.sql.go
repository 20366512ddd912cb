package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const userColumns = `id, name, email, password_hash, role, status, picture, oauth_provider, oauth_id,
	shipping_region, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, extra ...any) (User, error) {
	var i User
	dest := []any{
		&i.ID,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Status,
		&i.Picture,
		&i.OauthProvider,
		&i.OauthID,
		&i.ShippingRegion,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

const insertUser = `-- name: InsertUser :one
INSERT INTO users (name, email, password_hash, role, status, picture, oauth_provider, oauth_id, shipping_region)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at
`

type InsertUserParams struct {
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	Status         string
	Picture        string
	OauthProvider  string
	OauthID        string
	ShippingRegion string
}

type InsertUserRow struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) InsertUser(ctx context.Context, arg InsertUserParams) (InsertUserRow, error) {
	row := q.db.QueryRow(ctx, insertUser,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Role,
		arg.Status,
		arg.Picture,
		arg.OauthProvider,
		arg.OauthID,
		arg.ShippingRegion,
	)
	var i InsertUserRow
	err := row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByOAuth = `-- name: GetUserByOAuth :one
SELECT ` + userColumns + `
FROM users
WHERE oauth_provider = $1 AND oauth_id = $2 AND oauth_id <> ''
`

func (q *Queries) GetUserByOAuth(ctx context.Context, provider, oauthID string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByOAuth, provider, oauthID))
}

const updateUser = `-- name: UpdateUser :one
UPDATE users
SET name = $2, role = $3, status = $4, picture = $5, oauth_provider = $6, oauth_id = $7,
	shipping_region = $8, updated_at = now()
WHERE id = $1
RETURNING updated_at
`

type UpdateUserParams struct {
	ID             int64
	Name           string
	Role           string
	Status         string
	Picture        string
	OauthProvider  string
	OauthID        string
	ShippingRegion string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (time.Time, error) {
	row := q.db.QueryRow(ctx, updateUser,
		arg.ID,
		arg.Name,
		arg.Role,
		arg.Status,
		arg.Picture,
		arg.OauthProvider,
		arg.OauthID,
		arg.ShippingRegion,
	)
	var updatedAt time.Time
	err := row.Scan(&updatedAt)
	return updatedAt, err
}

const deleteUser = `-- name: DeleteUser :execresult
DELETE FROM users
WHERE id = $1
`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteUser, id)
}

const listUsersWithStats = `-- name: ListUsersWithStats :many
SELECT u.id, u.name, u.email, u.password_hash, u.role, u.status, u.picture, u.oauth_provider, u.oauth_id,
	u.shipping_region, u.created_at, u.updated_at,
	COUNT(o.id) AS total_orders,
	COALESCE(SUM(o.total), 0) AS total_spent
FROM users u
LEFT JOIN orders o ON o.user_id = u.id
GROUP BY u.id
ORDER BY u.created_at DESC, u.id DESC
`

type ListUsersWithStatsRow struct {
	User
	TotalOrders int64
	TotalSpent  decimal.Decimal
}

func (q *Queries) ListUsersWithStats(ctx context.Context) ([]ListUsersWithStatsRow, error) {
	rows, err := q.db.Query(ctx, listUsersWithStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUsersWithStatsRow
	for rows.Next() {
		var i ListUsersWithStatsRow
		u, err := scanUser(rows, &i.TotalOrders, &i.TotalSpent)
		if err != nil {
			return nil, err
		}
		i.User = u
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countAdmins = `-- name: CountAdmins :one
SELECT COUNT(*) FROM users WHERE role = 'admin'
`

func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAdmins)
	var count int64
	err := row.Scan(&count)
	return count, err
}
