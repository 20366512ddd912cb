package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MaxQuantity and MaxStock bound counts to what the int4 columns hold.
const (
	MaxQuantity = math.MaxInt32
	MaxStock    = math.MaxInt32
)

// CartItem is one line of the checkout cart as sent by the client.
type CartItem struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

type PlaceOrderRequest struct {
	Items         []CartItem
	Total         decimal.Decimal
	DeliveryFee   decimal.Decimal
	PaymentMethod string
	Shipping      ShippingInfo
	// Currency zero value means the configured default.
	Currency currency.Unit
}

// Validate checks the cart shape only. Total is not cross-checked against the lines.
func (r PlaceOrderRequest) Validate() error {
	verr := &ValidationError{}

	if len(r.Items) == 0 {
		verr.Add("items", "cart is empty")
	}

	for i, item := range r.Items {
		if item.ProductID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].id", i), "must be a positive product id")
		}
		switch {
		case item.Quantity < 1:
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be >= 1")
		case item.Quantity > MaxQuantity:
			verr.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must be <= %d", MaxQuantity))
		}
		if item.Price.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].price", i), "must be >= 0")
		}
	}

	if r.Total.IsNegative() {
		verr.Add("total", "must be >= 0")
	}
	if r.DeliveryFee.IsNegative() {
		verr.Add("delivery_fee", "must be >= 0")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
