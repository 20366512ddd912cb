package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/auth"
	"github.com/nikolayk812/nicoshop/internal/bootstrap"
	"github.com/nikolayk812/nicoshop/internal/bootstrap/steps"
	"github.com/nikolayk812/nicoshop/internal/cache"
	"github.com/nikolayk812/nicoshop/internal/config"
	"github.com/nikolayk812/nicoshop/internal/events"
	"github.com/nikolayk812/nicoshop/internal/httpapi"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/nikolayk812/nicoshop/internal/repository"
	"github.com/nikolayk812/nicoshop/internal/service"
	"github.com/nikolayk812/nicoshop/internal/tablestore"
	"github.com/redis/go-redis/v9"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
	eventBuffer     = 256
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", cfg.ServiceName)
}

func run(cfg config.Config) error {
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, rdb, err := openStore(startCtx, cfg)
	if err != nil {
		return fmt.Errorf("openStore: %w", err)
	}
	defer store.Close()

	if err := runBootstrap(startCtx, cfg, store); err != nil {
		return fmt.Errorf("runBootstrap: %w", err)
	}

	productCache, closeCache, err := openCache(startCtx, cfg, rdb)
	if err != nil {
		return fmt.Errorf("openCache: %w", err)
	}
	defer closeCache()

	publisher, closePublisher, err := openPublisher(cfg)
	if err != nil {
		return fmt.Errorf("openPublisher: %w", err)
	}
	defer closePublisher()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return fmt.Errorf("auth.NewTokenIssuer: %w", err)
	}

	deps, err := newDeps(cfg, store, productCache, publisher, tokens)
	if err != nil {
		return fmt.Errorf("newDeps: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := httpapi.NewRouter(deps)
	if err != nil {
		return fmt.Errorf("httpapi.NewRouter: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "backend", cfg.StoreBackend, "stock_policy", cfg.StockPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

// openStore returns the redis client too when the backend is redis, so the cache can share it.
func openStore(ctx context.Context, cfg config.Config) (port.Store, *redis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := tablestore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("tablestore.NewClient: %w", err)
		}
		return tablestore.NewStore(rdb), rdb, nil
	default:
		pool, err := repository.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.Connect: %w", err)
		}
		return repository.NewStore(pool), nil, nil
	}
}

func runBootstrap(ctx context.Context, cfg config.Config, store port.Store) error {
	var pSteps []steps.Step

	if cfg.StoreBackend == config.BackendPostgres {
		migrateStep, err := steps.NewMigrate(cfg.DatabaseURL, repository.Migrations, "migrations")
		if err != nil {
			return fmt.Errorf("steps.NewMigrate: %w", err)
		}
		pSteps = append(pSteps, migrateStep)
	}

	if cfg.AdminPassword != "" {
		seedStep, err := steps.NewSeedAdmin(store.Users(), cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("steps.NewSeedAdmin: %w", err)
		}
		pSteps = append(pSteps, seedStep)
	}

	if len(pSteps) == 0 {
		return nil
	}

	pipeline, err := bootstrap.NewPipeline(pSteps...)
	if err != nil {
		return fmt.Errorf("bootstrap.NewPipeline: %w", err)
	}

	dataCtx, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline.Run: %w", err)
	}

	slog.Info("bootstrap done",
		"schema_version", dataCtx[steps.SchemaVersionKey],
		"admin_user_id", dataCtx[steps.AdminUserIDKey])

	return nil
}

// openCache reuses the store client when there is one. Without a redis url the cache is disabled.
func openCache(ctx context.Context, cfg config.Config, rdb *redis.Client) (port.ProductCache, func(), error) {
	closeFn := func() {}

	if rdb == nil {
		if cfg.RedisURL == "" {
			slog.Info("product cache disabled")
			return cache.Noop{}, closeFn, nil
		}

		var err error
		rdb, err = tablestore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("tablestore.NewClient: %w", err)
		}
		closeFn = func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("rdb.Close", "error", err)
			}
		}
	}

	productCache, err := cache.NewProductCache(rdb, cfg.ProductCacheTTL)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("cache.NewProductCache: %w", err)
	}

	return productCache, closeFn, nil
}

func openPublisher(cfg config.Config) (port.OrderEventPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Info("order events disabled")
		return events.Noop{}, func() {}, nil
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, eventBuffer, cfg.ServiceName)
	if err != nil {
		return nil, nil, fmt.Errorf("events.NewProducer: %w", err)
	}
	producer.Start()

	return producer, func() {
		producer.Close()
		producer.WaitClosed()
	}, nil
}

func newDeps(
	cfg config.Config,
	store port.Store,
	productCache port.ProductCache,
	publisher port.OrderEventPublisher,
	tokens *auth.TokenIssuer,
) (httpapi.Deps, error) {
	orders, err := service.NewOrderService(store, publisher, service.NewOrderIDGenerator(nil), cfg.StockPolicy, cfg.DefaultCurrency)
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("service.NewOrderService: %w", err)
	}

	products, err := service.NewProductService(store.Products(), productCache)
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("service.NewProductService: %w", err)
	}

	authService, err := service.NewAuthService(store.Users(), tokens)
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("service.NewAuthService: %w", err)
	}

	users, err := service.NewUserService(store.Users())
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("service.NewUserService: %w", err)
	}

	favorites, err := service.NewFavoriteService(store.Favorites())
	if err != nil {
		return httpapi.Deps{}, fmt.Errorf("service.NewFavoriteService: %w", err)
	}

	return httpapi.Deps{
		Orders:         orders,
		Products:       products,
		Auth:           authService,
		Users:          users,
		Favorites:      favorites,
		Tokens:         tokens,
		Store:          store,
		AllowedOrigins: cfg.AllowedOrigins(),
	}, nil
}
