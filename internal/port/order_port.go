package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)

	// SearchOrders returns matching orders newest first, lines included.
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// InsertOrder stores the order row only, with status pending. Lines go through InsertOrderLine.
	InsertOrder(ctx context.Context, order domain.Order) error
	InsertOrderLine(ctx context.Context, line domain.OrderLine) (int64, error)

	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error

	// DeleteOrder removes the order together with its lines.
	DeleteOrder(ctx context.Context, orderID string) error
}
