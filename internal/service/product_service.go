package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
)

type ProductService struct {
	products port.ProductRepository
	cache    port.ProductCache
}

func NewProductService(products port.ProductRepository, cache port.ProductCache) (*ProductService, error) {
	if products == nil {
		return nil, errors.New("products is nil")
	}
	if cache == nil {
		return nil, errors.New("cache is nil")
	}

	return &ProductService{products: products, cache: cache}, nil
}

// ListProducts returns active products newest first. Cache failures fall back to the store.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cached, ok, err := s.cache.GetProducts(ctx)
	if err != nil {
		slog.Warn("product cache read", "method", "ProductService.ListProducts", "error", err)
	}
	if ok {
		return cached, nil
	}

	products, err := s.products.ListProducts(ctx, true)
	if err != nil {
		return nil, classify("products.ListProducts", err)
	}

	if err := s.cache.SetProducts(ctx, products); err != nil {
		slog.Warn("product cache write", "method", "ProductService.ListProducts", "error", err)
	}

	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, classify("products.GetProduct", err)
	}

	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.Status == "" {
		product.Status = domain.ProductStatusActive
	}

	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	productID, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		return domain.Product{}, classify("products.InsertProduct", err)
	}

	s.invalidate(ctx, "ProductService.CreateProduct")

	return s.GetProduct(ctx, productID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID int64, patch domain.ProductPatch) (domain.Product, error) {
	if err := patch.Validate(); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, classify("products.GetProduct", err)
	}

	if err := s.products.UpdateProduct(ctx, patch.Apply(product)); err != nil {
		return domain.Product{}, classify("products.UpdateProduct", err)
	}

	s.invalidate(ctx, "ProductService.UpdateProduct")

	return s.GetProduct(ctx, productID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return classify("products.DeleteProduct", err)
	}

	s.invalidate(ctx, "ProductService.DeleteProduct")

	return nil
}

func (s *ProductService) invalidate(ctx context.Context, method string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("product cache invalidate", "method", method, "error", err)
	}
}
