package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID int64) error

	// DecrementStock lowers stock by quantity. Under StockPolicyGuarded it fails with
	// domain.ErrInsufficientStock or domain.ErrProductNotFound and changes nothing.
	// Under StockPolicyUnchecked an unknown product is silently ignored.
	DecrementStock(ctx context.Context, productID int64, quantity int, policy domain.StockPolicy) error
}
