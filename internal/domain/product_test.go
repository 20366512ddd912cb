package domain_test

import (
	"testing"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPatch(t *testing.T) {
	tests := []struct {
		name      string
		patch     domain.ProductPatch
		wantError string
	}{
		{
			name:      "empty patch: fail",
			patch:     domain.ProductPatch{},
			wantError: "validation failed: patch: no fields to update",
		},
		{
			name:      "negative stock: fail",
			patch:     domain.ProductPatch{Stock: lo.ToPtr(-1)},
			wantError: "validation failed: stock: must be >= 0",
		},
		{
			name:      "stock above int4 range: fail",
			patch:     domain.ProductPatch{Stock: lo.ToPtr(1<<32 + 5)},
			wantError: "validation failed: stock: must be <= 2147483647",
		},
		{
			name:      "unknown status: fail",
			patch:     domain.ProductPatch{Status: lo.ToPtr(domain.ProductStatus("gone"))},
			wantError: "validation failed: status: invalid product status",
		},
		{
			name:  "price and stock: ok",
			patch: domain.ProductPatch{Price: lo.ToPtr(decimal.NewFromInt(12)), Stock: lo.ToPtr(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}

	product := domain.Product{Name: "Mug", Price: decimal.NewFromInt(10), Stock: 5, Status: domain.ProductStatusActive}
	patched := domain.ProductPatch{Stock: lo.ToPtr(0), Status: lo.ToPtr(domain.ProductStatusOutOfStock)}.Apply(product)

	assert.Equal(t, "Mug", patched.Name)
	assert.Equal(t, 0, patched.Stock)
	assert.Equal(t, domain.ProductStatusOutOfStock, patched.Status)
}

func TestProduct_Validate(t *testing.T) {
	valid := domain.Product{Name: "Mug", Price: decimal.NewFromInt(10), Stock: 5, Status: domain.ProductStatusActive}

	tests := []struct {
		name      string
		mutate    func(p *domain.Product)
		wantError string
	}{
		{
			name:   "valid: ok",
			mutate: func(p *domain.Product) {},
		},
		{
			name:   "largest stock: ok",
			mutate: func(p *domain.Product) { p.Stock = domain.MaxStock },
		},
		{
			name:      "stock above int4 range: fail",
			mutate:    func(p *domain.Product) { p.Stock = 1<<32 + 5 },
			wantError: "validation failed: stock: must be <= 2147483647",
		},
		{
			name:      "negative stock: fail",
			mutate:    func(p *domain.Product) { p.Stock = -1 },
			wantError: "validation failed: stock: must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := valid
			tt.mutate(&product)

			err := product.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}
