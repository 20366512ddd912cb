package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Order struct {
	ID            string
	UserID        int64
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	DeliveryFee   decimal.Decimal
	Currency      currency.Unit
	PaymentMethod string
	Shipping      ShippingInfo
	Status        OrderStatus
	Items         []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ShippingInfo struct {
	Address string
	Region  string
}

// OrderLine price is frozen at order time and never follows later product price changes.
type OrderLine struct {
	ID          int64
	OrderID     string
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal

	CreatedAt time.Time
}

func (o Order) TotalMoney() Money {
	return Money{Amount: o.Total, Currency: o.Currency}
}

func (o Order) OwnedBy(userID int64) bool {
	return o.UserID == userID
}
