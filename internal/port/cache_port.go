package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

// ProductCache keeps the public product listing.
type ProductCache interface {
	// GetProducts reports false on a miss.
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}
