package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	Category    string
	Status      ProductStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductPatch holds the fields an admin update may change. Nil means unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	Stock       *int
	Category    *string
	Status      *ProductStatus
}

func (p ProductPatch) Validate() error {
	verr := &ValidationError{}

	if p.Name == nil && p.Description == nil && p.Price == nil && p.ImageURL == nil &&
		p.Stock == nil && p.Category == nil && p.Status == nil {
		verr.Add("patch", "no fields to update")
	}
	if p.Name != nil && *p.Name == "" {
		verr.Add("name", "must not be empty")
	}
	if p.Price != nil && p.Price.IsNegative() {
		verr.Add("price", "must be >= 0")
	}
	if p.Stock != nil {
		addStockRule(verr, *p.Stock)
	}
	if p.Status != nil {
		if _, err := ToProductStatus(string(*p.Status)); err != nil {
			verr.Add("status", err.Error())
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	return product
}

func (p Product) Validate() error {
	verr := &ValidationError{}

	if p.Name == "" {
		verr.Add("name", "is required")
	}
	if p.Price.IsNegative() {
		verr.Add("price", "must be >= 0")
	}
	addStockRule(verr, p.Stock)
	if _, err := ToProductStatus(string(p.Status)); err != nil {
		verr.Add("status", err.Error())
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func addStockRule(verr *ValidationError, stock int) {
	switch {
	case stock < 0:
		verr.Add("stock", "must be >= 0")
	case stock > MaxStock:
		verr.Add("stock", fmt.Sprintf("must be <= %d", MaxStock))
	}
}

type ProductStatus string

// remember to add new statuses to the validProductStatuses map
const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

var validProductStatuses = map[ProductStatus]struct{}{
	ProductStatusActive:     {},
	ProductStatusInactive:   {},
	ProductStatusOutOfStock: {},
}

func ToProductStatus(s string) (ProductStatus, error) {
	status := ProductStatus(s)
	if _, ok := validProductStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid product status")
}
