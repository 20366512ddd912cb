package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/db"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var o domain.Order

	if orderID == "" {
		return o, fmt.Errorf("orderID is empty")
	}

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		domainOrder.Items = lo.Map(dbOrderItems, func(item db.OrderItem, _ int) domain.OrderLine {
			return mapDBOrderItemToDomain(item)
		})

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) error {
	if order.ID == "" {
		return fmt.Errorf("orderID is empty")
	}

	_, err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		ID:              order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Total:           order.Total,
		DeliveryFee:     order.DeliveryFee,
		Currency:        order.Currency.String(),
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.Shipping.Address,
		ShippingRegion:  order.Shipping.Region,
	})
	if err != nil {
		return fmt.Errorf("q.InsertOrder: %w", mapPgError(err, domain.ErrOrderExists, domain.ErrUserNotFound))
	}

	return nil
}

func (r *orderRepository) InsertOrderLine(ctx context.Context, line domain.OrderLine) (int64, error) {
	if line.OrderID == "" {
		return 0, fmt.Errorf("orderID is empty")
	}

	row, err := r.q.InsertOrderItem(ctx, db.InsertOrderItemParams{
		OrderID:     line.OrderID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    int32(line.Quantity),
		Price:       line.Price,
	})
	if err != nil {
		return 0, fmt.Errorf("q.InsertOrderItem: %w", mapPgError(err, nil, domain.ErrOrderNotFound))
	}

	return row.ID, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		UserIds:       nilSliceIfEmpty(filter.UserIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbRows, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	// rows arrive newest order first, one row per line
	var orders []domain.Order
	index := make(map[string]int)

	for _, row := range dbRows {
		idx, exists := index[row.ID]
		if !exists {
			order, err := mapDBOrderToDomain(row.Order)
			if err != nil {
				return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			orders = append(orders, order)
			idx = len(orders) - 1
			index[row.ID] = idx
		}

		if row.ItemID == nil {
			continue
		}

		orders[idx].Items = append(orders[idx].Items, domain.OrderLine{
			ID:          *row.ItemID,
			OrderID:     row.ID,
			ProductID:   lo.FromPtr(row.ItemProductID),
			ProductName: lo.FromPtr(row.ItemProductName),
			Quantity:    int(lo.FromPtr(row.ItemQuantity)),
			Price:       row.ItemPrice.Decimal,
			CreatedAt:   lo.FromPtr(row.ItemCreatedAt),
		})
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if orderID == "" {
		return fmt.Errorf("orderID is empty")
	}

	if status == "" {
		return fmt.Errorf("status is empty")
	}

	cmdTag, err := r.q.UpdateOrderStatus(ctx, orderID, string(status))
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.q.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("q.DeleteOrder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteOrder: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func mapDBOrderToDomain(dbOrder db.Order) (domain.Order, error) {
	var o domain.Order

	parsedCurrency, err := currency.ParseISO(dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.Currency, err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	return domain.Order{
		ID:            dbOrder.ID,
		UserID:        dbOrder.UserID,
		CustomerName:  dbOrder.CustomerName,
		CustomerEmail: dbOrder.CustomerEmail,
		Total:         dbOrder.Total,
		DeliveryFee:   dbOrder.DeliveryFee,
		Currency:      parsedCurrency,
		PaymentMethod: dbOrder.PaymentMethod,
		Shipping: domain.ShippingInfo{
			Address: dbOrder.ShippingAddress,
			Region:  dbOrder.ShippingRegion,
		},
		Status:    status,
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}

func mapDBOrderItemToDomain(item db.OrderItem) domain.OrderLine {
	return domain.OrderLine{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    int(item.Quantity),
		Price:       item.Price,
		CreatedAt:   item.CreatedAt,
	}
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
