package tablestore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type userRecord struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	Picture        string    `json:"picture"`
	OAuthProvider  string    `json:"oauth_provider"`
	OAuthID        string    `json:"oauth_id"`
	ShippingRegion string    `json:"shipping_region"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// productRecord carries no stock, it lives in its own integer key.
type productRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type orderRecord struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	Total           decimal.Decimal `json:"total"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Currency        string          `json:"currency"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingRegion  string          `json:"shipping_region"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type orderLineRecord struct {
	ID          int64           `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

type favoriteRecord struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}
	return string(b), nil
}

func decode[T any](s string) (T, error) {
	var t T
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return t, fmt.Errorf("json.Unmarshal: %w", err)
	}
	return t, nil
}

func toUserRecord(u domain.User) userRecord {
	return userRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		Status:         string(u.Status),
		Picture:        u.Picture,
		OAuthProvider:  u.OAuthProvider,
		OAuthID:        u.OAuthID,
		ShippingRegion: u.ShippingRegion,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		Role:           domain.Role(r.Role),
		Status:         domain.UserStatus(r.Status),
		Picture:        r.Picture,
		OAuthProvider:  r.OAuthProvider,
		OAuthID:        r.OAuthID,
		ShippingRegion: r.ShippingRegion,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toProductRecord(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRecord) toDomain(stock int) (domain.Product, error) {
	status, err := domain.ToProductStatus(r.Status)
	if err != nil {
		return domain.Product{}, fmt.Errorf("domain.ToProductStatus[%s]: %w", r.Status, err)
	}

	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       stock,
		Category:    r.Category,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func toOrderRecord(o domain.Order) orderRecord {
	return orderRecord{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Total:           o.Total,
		DeliveryFee:     o.DeliveryFee,
		Currency:        o.Currency.String(),
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.Shipping.Address,
		ShippingRegion:  o.Shipping.Region,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r orderRecord) toDomain() (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(r.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", r.Currency, err)
	}

	status, err := domain.ToOrderStatus(r.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", r.Status, err)
	}

	return domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Total:         r.Total,
		DeliveryFee:   r.DeliveryFee,
		Currency:      parsedCurrency,
		PaymentMethod: r.PaymentMethod,
		Shipping: domain.ShippingInfo{
			Address: r.ShippingAddress,
			Region:  r.ShippingRegion,
		},
		Status:    status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func toOrderLineRecord(l domain.OrderLine) orderLineRecord {
	return orderLineRecord{
		ID:          l.ID,
		OrderID:     l.OrderID,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		Price:       l.Price,
		CreatedAt:   l.CreatedAt,
	}
}

func (r orderLineRecord) toDomain() domain.OrderLine {
	return domain.OrderLine{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
	}
}
