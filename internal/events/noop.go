package events

import (
	"context"
	"log/slog"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

// Noop is used when no Kafka brokers are configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	slog.Debug("order event dropped, no brokers", "method", "Noop.PublishOrderPlaced", "order_id", order.ID)
	return nil
}
