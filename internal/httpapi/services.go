package httpapi

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/service"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, identity domain.Identity, req domain.PlaceOrderRequest) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, identity domain.Identity, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, identity domain.Identity, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	OAuthLogin(ctx context.Context, identity service.OAuthIdentity) (service.Session, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	UpdateUserStatus(ctx context.Context, userID int64, status string) (domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	UpdateShippingRegion(ctx context.Context, identity domain.Identity, region string) (domain.User, error)
}

type FavoriteService interface {
	ListFavorites(ctx context.Context, identity domain.Identity) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, identity domain.Identity, productID int64) (domain.Favorite, error)
	RemoveFavorite(ctx context.Context, identity domain.Identity, productID int64) error
}

type TokenParser interface {
	Parse(token string) (domain.Identity, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
