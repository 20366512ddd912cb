package httpapi_test

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/service"
)

// stubServices implements every service the router needs. Unset funcs return zero values.
type stubServices struct {
	placeOrder     func(domain.Identity, domain.PlaceOrderRequest) (domain.Order, error)
	listOrders     func(domain.OrderFilter) ([]domain.Order, error)
	listUserOrders func(domain.Identity, int64) ([]domain.Order, error)
	getOrder       func(domain.Identity, string) (domain.Order, error)
	updateStatus   func(string, string) (domain.Order, error)
	deleteOrder    func(string) error

	listProducts  func() ([]domain.Product, error)
	getProduct    func(int64) (domain.Product, error)
	createProduct func(domain.Product) (domain.Product, error)
	updateProduct func(int64, domain.ProductPatch) (domain.Product, error)

	login func(string, string) (service.Session, error)

	listUsers func() ([]domain.UserSummary, error)

	removeFavorite func(domain.Identity, int64) error

	pingErr error
}

func (s *stubServices) PlaceOrder(_ context.Context, identity domain.Identity, req domain.PlaceOrderRequest) (domain.Order, error) {
	if s.placeOrder == nil {
		return domain.Order{}, nil
	}
	return s.placeOrder(identity, req)
}

func (s *stubServices) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if s.listOrders == nil {
		return nil, nil
	}
	return s.listOrders(filter)
}

func (s *stubServices) ListUserOrders(_ context.Context, identity domain.Identity, userID int64) ([]domain.Order, error) {
	if s.listUserOrders == nil {
		return nil, nil
	}
	return s.listUserOrders(identity, userID)
}

func (s *stubServices) GetOrder(_ context.Context, identity domain.Identity, orderID string) (domain.Order, error) {
	if s.getOrder == nil {
		return domain.Order{}, nil
	}
	return s.getOrder(identity, orderID)
}

func (s *stubServices) UpdateOrderStatus(_ context.Context, orderID string, status string) (domain.Order, error) {
	if s.updateStatus == nil {
		return domain.Order{}, nil
	}
	return s.updateStatus(orderID, status)
}

func (s *stubServices) DeleteOrder(_ context.Context, orderID string) error {
	if s.deleteOrder == nil {
		return nil
	}
	return s.deleteOrder(orderID)
}

func (s *stubServices) ListProducts(context.Context) ([]domain.Product, error) {
	if s.listProducts == nil {
		return nil, nil
	}
	return s.listProducts()
}

func (s *stubServices) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	if s.getProduct == nil {
		return domain.Product{}, nil
	}
	return s.getProduct(productID)
}

func (s *stubServices) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if s.createProduct == nil {
		return product, nil
	}
	return s.createProduct(product)
}

func (s *stubServices) UpdateProduct(_ context.Context, productID int64, patch domain.ProductPatch) (domain.Product, error) {
	if s.updateProduct == nil {
		return domain.Product{}, nil
	}
	return s.updateProduct(productID, patch)
}

func (s *stubServices) DeleteProduct(context.Context, int64) error { return nil }

func (s *stubServices) Register(context.Context, string, string, string) (service.Session, error) {
	return service.Session{}, nil
}

func (s *stubServices) Login(_ context.Context, email, password string) (service.Session, error) {
	if s.login == nil {
		return service.Session{}, nil
	}
	return s.login(email, password)
}

func (s *stubServices) OAuthLogin(context.Context, service.OAuthIdentity) (service.Session, error) {
	return service.Session{}, nil
}

func (s *stubServices) ListUsers(context.Context) ([]domain.UserSummary, error) {
	if s.listUsers == nil {
		return nil, nil
	}
	return s.listUsers()
}

func (s *stubServices) GetUser(context.Context, int64) (domain.User, error) { return domain.User{}, nil }

func (s *stubServices) UpdateUserStatus(context.Context, int64, string) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubServices) DeleteUser(context.Context, int64) error { return nil }

func (s *stubServices) UpdateShippingRegion(context.Context, domain.Identity, string) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubServices) ListFavorites(context.Context, domain.Identity) ([]domain.Favorite, error) {
	return nil, nil
}

func (s *stubServices) AddFavorite(context.Context, domain.Identity, int64) (domain.Favorite, error) {
	return domain.Favorite{}, nil
}

func (s *stubServices) RemoveFavorite(_ context.Context, identity domain.Identity, productID int64) error {
	if s.removeFavorite == nil {
		return nil
	}
	return s.removeFavorite(identity, productID)
}

func (s *stubServices) Ping(context.Context) error { return s.pingErr }
