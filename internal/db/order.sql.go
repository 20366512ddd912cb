package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, user_id, customer_name, customer_email, total, delivery_fee, currency,
	payment_method, shipping_address, shipping_region, status, created_at, updated_at`

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (id, user_id, customer_name, customer_email, total, delivery_fee, currency,
	payment_method, shipping_address, shipping_region, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
RETURNING created_at
`

type InsertOrderParams struct {
	ID              string
	UserID          int64
	CustomerName    string
	CustomerEmail   string
	Total           decimal.Decimal
	DeliveryFee     decimal.Decimal
	Currency        string
	PaymentMethod   string
	ShippingAddress string
	ShippingRegion  string
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (time.Time, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.ID,
		arg.UserID,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.Total,
		arg.DeliveryFee,
		arg.Currency,
		arg.PaymentMethod,
		arg.ShippingAddress,
		arg.ShippingRegion,
	)
	var createdAt time.Time
	err := row.Scan(&createdAt)
	return createdAt, err
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id string) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CustomerName,
		&i.CustomerEmail,
		&i.Total,
		&i.DeliveryFee,
		&i.Currency,
		&i.PaymentMethod,
		&i.ShippingAddress,
		&i.ShippingRegion,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getOrderItems = `-- name: GetOrderItems :many
SELECT id, order_id, product_id, product_name, quantity, price, created_at
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) GetOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, getOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.ProductName,
			&i.Quantity,
			&i.Price,
			&i.CreatedAt,
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

const insertOrderItem = `-- name: InsertOrderItem :one
INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at
`

type InsertOrderItemParams struct {
	OrderID     string
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
}

type InsertOrderItemRow struct {
	ID        int64
	CreatedAt time.Time
}

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) (InsertOrderItemRow, error) {
	row := q.db.QueryRow(ctx, insertOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.ProductName,
		arg.Quantity,
		arg.Price,
	)
	var i InsertOrderItemRow
	err := row.Scan(&i.ID, &i.CreatedAt)
	return i, err
}

const searchOrders = `-- name: SearchOrders :many
SELECT o.id, o.user_id, o.customer_name, o.customer_email, o.total, o.delivery_fee, o.currency,
	o.payment_method, o.shipping_address, o.shipping_region, o.status, o.created_at, o.updated_at,
	oi.id, oi.product_id, oi.product_name, oi.quantity, oi.price, oi.created_at
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
WHERE ($1::bigint[] IS NULL OR o.user_id = ANY($1::bigint[]))
  AND ($2::text[] IS NULL OR o.status = ANY($2::text[]))
  AND ($3::timestamptz IS NULL OR o.created_at > $3::timestamptz)
  AND ($4::timestamptz IS NULL OR o.created_at < $4::timestamptz)
ORDER BY o.created_at DESC, o.id DESC, oi.id
`

type SearchOrdersParams struct {
	UserIds       []int64
	Statuses      []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

type SearchOrdersRow struct {
	Order
	ItemID          *int64
	ItemProductID   *int64
	ItemProductName *string
	ItemQuantity    *int32
	ItemPrice       decimal.NullDecimal
	ItemCreatedAt   *time.Time
}

func (q *Queries) SearchOrders(ctx context.Context, arg SearchOrdersParams) ([]SearchOrdersRow, error) {
	rows, err := q.db.Query(ctx, searchOrders,
		arg.UserIds,
		arg.Statuses,
		arg.CreatedAfter,
		arg.CreatedBefore,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SearchOrdersRow
	for rows.Next() {
		var i SearchOrdersRow
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.CustomerName,
			&i.CustomerEmail,
			&i.Total,
			&i.DeliveryFee,
			&i.Currency,
			&i.PaymentMethod,
			&i.ShippingAddress,
			&i.ShippingRegion,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.ItemID,
			&i.ItemProductID,
			&i.ItemProductName,
			&i.ItemQuantity,
			&i.ItemPrice,
			&i.ItemCreatedAt,
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

const updateOrderStatus = `-- name: UpdateOrderStatus :execresult
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateOrderStatus(ctx context.Context, id string, status string) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, updateOrderStatus, id, status)
}

const deleteOrder = `-- name: DeleteOrder :execresult
DELETE FROM orders
WHERE id = $1
`

// DeleteOrder removes the order, its items go with it through ON DELETE CASCADE.
func (q *Queries) DeleteOrder(ctx context.Context, id string) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteOrder, id)
}
