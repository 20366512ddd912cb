package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}
