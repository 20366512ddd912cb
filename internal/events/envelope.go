package events

import (
	"encoding/json"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced = "OrderPlaced"

	// TopicOrderPlaced is the default topic, overridden by KAFKA_TOPIC.
	TopicOrderPlaced = "shop.order.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID       string          `json:"order_id"`
	UserID        int64           `json:"user_id"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Items         []OrderLineQty  `json:"items"`
	PlacedAt      time.Time       `json:"placed_at"`
}

type OrderLineQty struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func orderPlacedPayload(order domain.Order) OrderPlacedPayload {
	items := make([]OrderLineQty, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, OrderLineQty{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	return OrderPlacedPayload{
		OrderID:       order.ID,
		UserID:        order.UserID,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Currency:      order.Currency.String(),
		Items:         items,
		PlacedAt:      order.CreatedAt,
	}
}

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
