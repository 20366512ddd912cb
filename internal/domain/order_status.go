package domain

import "errors"

// OrderStatus is set to pending at checkout. Afterwards an admin may overwrite it
// with any other status; there is no transition graph.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderStatuses lists every status in display order.
var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var ErrInvalidOrderStatus = errors.New("invalid order status")

func ToOrderStatus(s string) (OrderStatus, error) {
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidOrderStatus
}

// OrderStatuses returns a copy, callers may modify it.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderStatuses...)
}
