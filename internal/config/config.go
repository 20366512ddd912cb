// Package config reads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"golang.org/x/text/currency"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	EnvProduction = "production"

	// DefaultJWTSecret is only acceptable outside production.
	DefaultJWTSecret = "change-me-in-production"
)

type Config struct {
	AppEnv      string
	Port        string
	ServiceName string
	LogLevel    slog.Level

	StoreBackend string
	DatabaseURL  string
	DBMaxConns   int32
	RedisURL     string

	ProductCacheTTL time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	StockPolicy     domain.StockPolicy
	DefaultCurrency currency.Unit

	KafkaBrokers []string
	KafkaTopic   string

	OriginURL string

	AdminEmail    string
	AdminPassword string
}

// Load reads envFiles (.env when none given) if they exist, then the environment.
// Variables already set in the environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load: %w", err)
		}
		slog.Debug("no env file, using process environment", "method", "config.Load")
	}

	var errs []error

	cfg := Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		ServiceName:   getEnv("SERVICE_NAME", "nicoshop"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		StockPolicy:   domain.StockPolicy(getEnv("STOCK_POLICY", string(domain.StockPolicyGuarded))),
		KafkaBrokers:  splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "shop.order.placed"),
		OriginURL:     getEnv("ORIGIN_URL", "http://localhost:5173"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@nicoshop.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS: %w", err))
	}
	cfg.DBMaxConns = int32(maxConns)

	cfg.ProductCacheTTL, err = time.ParseDuration(getEnv("PRODUCT_CACHE_TTL", "5m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("PRODUCT_CACHE_TTL: %w", err))
	}

	cfg.JWTExpiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "30m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("JWT_EXPIRY: %w", err))
	}

	cfg.DefaultCurrency, err = currency.ParseISO(getEnv("DEFAULT_CURRENCY", "EUR"))
	if err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_CURRENCY: %w", err))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND[%s]", c.StoreBackend))
	}

	if _, err := domain.ToStockPolicy(string(c.StockPolicy)); err != nil {
		errs = append(errs, fmt.Errorf("STOCK_POLICY: %w", err))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is empty"))
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}

	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// AllowedOrigins for CORS: the configured front-end plus the local dev server.
func (c Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:5173"}
	if c.OriginURL != "" && c.OriginURL != origins[0] {
		origins = append([]string{c.OriginURL}, origins...)
	}
	return origins
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
