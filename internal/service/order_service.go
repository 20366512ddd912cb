package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"golang.org/x/text/currency"
)

type OrderService struct {
	store     port.Store
	publisher port.OrderEventPublisher
	ids       *OrderIDGenerator
	policy    domain.StockPolicy
	currency  currency.Unit
}

func NewOrderService(
	store port.Store,
	publisher port.OrderEventPublisher,
	ids *OrderIDGenerator,
	policy domain.StockPolicy,
	defaultCurrency currency.Unit,
) (*OrderService, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher is nil")
	}
	if ids == nil {
		return nil, errors.New("ids is nil")
	}
	if _, err := domain.ToStockPolicy(string(policy)); err != nil {
		return nil, fmt.Errorf("domain.ToStockPolicy: %w", err)
	}

	return &OrderService{
		store:     store,
		publisher: publisher,
		ids:       ids,
		policy:    policy,
		currency:  defaultCurrency,
	}, nil
}

// PlaceOrder persists the order, its lines and the stock decrements as one unit.
// The caller-supplied total is stored as given.
func (s *OrderService) PlaceOrder(ctx context.Context, identity domain.Identity, req domain.PlaceOrderRequest) (domain.Order, error) {
	if identity.UserID <= 0 {
		return domain.Order{}, fmt.Errorf("identity: %w", domain.ErrUnauthorized)
	}

	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	user, err := s.store.Users().GetUser(ctx, identity.UserID)
	if err != nil {
		return domain.Order{}, classify("Users.GetUser", err)
	}

	unit := req.Currency
	if unit == (currency.Unit{}) {
		unit = s.currency
	}

	order := domain.Order{
		ID:            s.ids.Next(),
		UserID:        user.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		Total:         req.Total,
		DeliveryFee:   req.DeliveryFee,
		Currency:      unit,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.Shipping,
		Status:        domain.OrderStatusPending,
	}

	err = s.store.WithinTx(ctx, func(tx port.Tx) error {
		if err := tx.Orders().InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("tx.InsertOrder: %w", err)
		}

		for i, item := range req.Items {
			line := domain.OrderLine{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: item.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
			}

			if _, err := tx.Orders().InsertOrderLine(ctx, line); err != nil {
				return fmt.Errorf("tx.InsertOrderLine[%d]: %w", i, err)
			}

			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity, s.policy); err != nil {
				return fmt.Errorf("tx.DecrementStock[%d]: %w", item.ProductID, err)
			}
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, classify("store.WithinTx", err)
	}

	placed, err := s.store.Orders().GetOrder(ctx, order.ID)
	if err != nil {
		return domain.Order{}, classify("Orders.GetOrder", err)
	}

	// the order is committed, a lost event must not fail the request
	if err := s.publisher.PublishOrderPlaced(ctx, placed); err != nil {
		slog.Warn("publish order placed",
			"method", "OrderService.PlaceOrder",
			"order_id", placed.ID,
			"error", err)
	}

	return placed, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, domain.NewValidationError("filter", err.Error())
	}

	orders, err := s.store.Orders().SearchOrders(ctx, filter)
	if err != nil {
		return nil, classify("Orders.SearchOrders", err)
	}

	return orders, nil
}

// ListUserOrders lists the orders of userID. Customers may only list their own.
func (s *OrderService) ListUserOrders(ctx context.Context, identity domain.Identity, userID int64) ([]domain.Order, error) {
	if !identity.CanAccessUser(userID) {
		return nil, fmt.Errorf("user[%d] orders: %w", userID, domain.ErrForbidden)
	}

	return s.ListOrders(ctx, domain.OrderFilter{UserIDs: []int64{userID}})
}

func (s *OrderService) GetOrder(ctx context.Context, identity domain.Identity, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.NewValidationError("id", "is required")
	}

	order, err := s.store.Orders().GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, classify("Orders.GetOrder", err)
	}

	if !identity.IsAdmin() && !order.OwnedBy(identity.UserID) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrForbidden)
	}

	return order, nil
}

// UpdateOrderStatus overwrites the status. Any status may follow any other.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.NewValidationError("id", "is required")
	}

	orderStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return domain.Order{}, domain.NewValidationError("status", err.Error())
	}

	if err := s.store.Orders().UpdateOrderStatus(ctx, orderID, orderStatus); err != nil {
		return domain.Order{}, classify("Orders.UpdateOrderStatus", err)
	}

	order, err := s.store.Orders().GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, classify("Orders.GetOrder", err)
	}

	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.NewValidationError("id", "is required")
	}

	if err := s.store.Orders().DeleteOrder(ctx, orderID); err != nil {
		return classify("Orders.DeleteOrder", err)
	}

	return nil
}
