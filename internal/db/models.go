package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string
	UserID          int64
	CustomerName    string
	CustomerEmail   string
	Total           decimal.Decimal
	DeliveryFee     decimal.Decimal
	Currency        string
	PaymentMethod   string
	ShippingAddress string
	ShippingRegion  string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID          int64
	OrderID     string
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
	CreatedAt   time.Time
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageUrl    string
	Stock       int32
	Category    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	Status         string
	Picture        string
	OauthProvider  string
	OauthID        string
	ShippingRegion string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Favorite struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time
}
