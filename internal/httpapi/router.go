// Package httpapi exposes the shop over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type Deps struct {
	Orders    OrderService
	Products  ProductService
	Auth      AuthService
	Users     UserService
	Favorites FavoriteService
	Tokens    TokenParser
	Store     Pinger

	AllowedOrigins []string
}

func (d Deps) validate() error {
	var errs []error
	if d.Orders == nil {
		errs = append(errs, errors.New("orders is nil"))
	}
	if d.Products == nil {
		errs = append(errs, errors.New("products is nil"))
	}
	if d.Auth == nil {
		errs = append(errs, errors.New("auth is nil"))
	}
	if d.Users == nil {
		errs = append(errs, errors.New("users is nil"))
	}
	if d.Favorites == nil {
		errs = append(errs, errors.New("favorites is nil"))
	}
	if d.Tokens == nil {
		errs = append(errs, errors.New("tokens is nil"))
	}
	if d.Store == nil {
		errs = append(errs, errors.New("store is nil"))
	}
	return errors.Join(errs...)
}

func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), corsMiddleware(deps.AllowedOrigins))

	orders := &orderHandler{svc: deps.Orders}
	products := &productHandler{svc: deps.Products}
	auth := &authHandler{svc: deps.Auth}
	users := &userHandler{svc: deps.Users}
	favorites := &favoriteHandler{svc: deps.Favorites}

	api := router.Group("/api")

	api.GET("/health", healthHandler(deps.Store))

	api.POST("/auth/register", auth.register)
	api.POST("/auth/login", auth.login)
	api.POST("/auth/oauth", auth.oauth)

	api.GET("/products", products.list)
	api.GET("/products/:id", products.get)

	authed := api.Group("")
	authed.Use(authMiddleware(deps.Tokens))
	{
		authed.POST("/orders", orders.place)
		authed.GET("/orders/user/:userId", orders.listForUser)
		authed.GET("/orders/:id", orders.get)

		authed.GET("/favoris", favorites.list)
		authed.POST("/favoris", favorites.add)
		authed.DELETE("/favoris/:product_id", favorites.remove)

		authed.PUT("/users/me/shipping", users.updateShipping)
	}

	admin := api.Group("")
	admin.Use(authMiddleware(deps.Tokens), adminMiddleware())
	{
		admin.POST("/products", products.create)
		admin.PUT("/products/:id", products.update)
		admin.DELETE("/products/:id", products.delete)

		admin.GET("/orders", orders.list)
		admin.PUT("/orders/:id/status", orders.updateStatus)
		admin.DELETE("/orders/:id", orders.delete)

		admin.GET("/users", users.list)
		admin.GET("/users/:id", users.get)
		admin.PUT("/users/:id/status", users.updateStatus)
		admin.DELETE("/users/:id", users.delete)
	}

	return router, nil
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
