package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/db"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
)

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q: db.New(pool),
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q: db.New(tx),
	}
}

func (r *productRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("q.GetProduct: %w", domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapDBProductToDomain(dbProduct)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	dbProducts, err := r.q.ListProducts(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(dbProducts))
	for _, dbProduct := range dbProducts {
		product, err := mapDBProductToDomain(dbProduct)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (int64, error) {
	if product.Name == "" {
		return 0, fmt.Errorf("name is empty")
	}

	row, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageUrl:    product.ImageURL,
		Stock:       int32(product.Stock),
		Category:    product.Category,
		Status:      string(product.Status),
	})
	if err != nil {
		return 0, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return row.ID, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	_, err := r.q.UpdateProduct(ctx, db.UpdateProductParams{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageUrl:    product.ImageURL,
		Stock:       int32(product.Stock),
		Category:    product.Category,
		Status:      string(product.Status),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("q.UpdateProduct: %w", domain.ErrProductNotFound)
		}
		return fmt.Errorf("q.UpdateProduct: %w", err)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID int64) error {
	cmdTag, err := r.q.DeleteProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("q.DeleteProduct: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteProduct: %w", domain.ErrProductNotFound)
	}

	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID int64, quantity int, policy domain.StockPolicy) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive: %d", quantity)
	}

	switch policy {
	case domain.StockPolicyUnchecked:
		if _, err := r.q.DecrementStock(ctx, productID, int32(quantity)); err != nil {
			return fmt.Errorf("q.DecrementStock: %w", err)
		}
		return nil

	case domain.StockPolicyGuarded:
		cmdTag, err := r.q.DecrementStockGuarded(ctx, productID, int32(quantity))
		if err != nil {
			return fmt.Errorf("q.DecrementStockGuarded: %w", err)
		}

		if cmdTag.RowsAffected() > 0 {
			return nil
		}

		exists, err := r.q.ProductExists(ctx, productID)
		if err != nil {
			return fmt.Errorf("q.ProductExists: %w", err)
		}
		if !exists {
			return fmt.Errorf("q.DecrementStockGuarded[%d]: %w", productID, domain.ErrProductNotFound)
		}
		return fmt.Errorf("q.DecrementStockGuarded[%d]: %w", productID, domain.ErrInsufficientStock)
	}

	return fmt.Errorf("unknown stock policy[%s]", policy)
}

func mapDBProductToDomain(p db.Product) (domain.Product, error) {
	status, err := domain.ToProductStatus(p.Status)
	if err != nil {
		return domain.Product{}, fmt.Errorf("domain.ToProductStatus[%s]: %w", p.Status, err)
	}

	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageUrl,
		Stock:       int(p.Stock),
		Category:    p.Category,
		Status:      status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}
