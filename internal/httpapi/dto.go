package httpapi

import (
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type cartItemRequest struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	Items           []cartItemRequest `json:"items"`
	Total           *decimal.Decimal  `json:"total"`
	ShippingAddress string            `json:"shipping_address"`
	ShippingRegion  string            `json:"shipping_region"`
	DeliveryFee     decimal.Decimal   `json:"delivery_fee"`
	PaymentMethod   string            `json:"payment_method"`
	Currency        string            `json:"currency"`
}

type orderLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          int64               `json:"user_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	Total           decimal.Decimal     `json:"total"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Currency        string              `json:"currency"`
	PaymentMethod   string              `json:"payment_method"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingRegion  string              `json:"shipping_region"`
	Status          domain.OrderStatus  `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []orderLineResponse `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
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
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items: lo.Map(o.Items, func(l domain.OrderLine, _ int) orderLineResponse {
			return orderLineResponse{
				ID:          l.ID,
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				Quantity:    l.Quantity,
				Price:       l.Price,
			}
		}),
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	return lo.Map(orders, func(o domain.Order, _ int) orderResponse { return toOrderResponse(o) })
}

type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Status      *string          `json:"status"`
}

func (r productRequest) toPatch() domain.ProductPatch {
	var status *domain.ProductStatus
	if r.Status != nil {
		status = lo.ToPtr(domain.ProductStatus(*r.Status))
	}

	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Category:    r.Category,
		Status:      status,
	}
}

func (r productRequest) toProduct() domain.Product {
	return domain.Product{
		Name:        lo.FromPtr(r.Name),
		Description: lo.FromPtr(r.Description),
		Price:       lo.FromPtr(r.Price),
		ImageURL:    lo.FromPtr(r.ImageURL),
		Stock:       lo.FromPtr(r.Stock),
		Category:    lo.FromPtr(r.Category),
		Status:      domain.ProductStatus(lo.FromPtr(r.Status)),
	}
}

type productResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       decimal.Decimal      `json:"price"`
	ImageURL    string               `json:"image_url"`
	Stock       int                  `json:"stock"`
	Category    string               `json:"category"`
	Status      domain.ProductStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Category:    p.Category,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type userResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           domain.Role       `json:"role"`
	Status         domain.UserStatus `json:"status"`
	Picture        string            `json:"picture,omitempty"`
	OAuthProvider  string            `json:"oauth_provider,omitempty"`
	ShippingRegion string            `json:"shipping_region,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Status:         u.Status,
		Picture:        u.Picture,
		OAuthProvider:  u.OAuthProvider,
		ShippingRegion: u.ShippingRegion,
		CreatedAt:      u.CreatedAt,
	}
}

type userSummaryResponse struct {
	userResponse
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type favoriteResponse struct {
	ID                 int64           `json:"id"`
	ProductID          int64           `json:"product_id"`
	ProductName        string          `json:"name"`
	ProductDescription string          `json:"description"`
	ProductPrice       decimal.Decimal `json:"price"`
	ProductImageURL    string          `json:"image_url"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toFavoriteResponse(f domain.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:                 f.ID,
		ProductID:          f.ProductID,
		ProductName:        f.ProductName,
		ProductDescription: f.ProductDescription,
		ProductPrice:       f.ProductPrice,
		ProductImageURL:    f.ProductImageURL,
		CreatedAt:          f.CreatedAt,
	}
}
