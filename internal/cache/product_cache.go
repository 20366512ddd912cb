// Package cache keeps the public product listing in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "products_list_"
	keyActive  = keyPrefix + "active"
	scanBatch  = 100
	DefaultTTL = 5 * time.Minute
)

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) (*ProductCache, error) {
	if rdb == nil {
		return nil, errors.New("rdb is nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &ProductCache{rdb: rdb, ttl: ttl}, nil
}

func (c *ProductCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, keyActive).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("rdb.Get: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return products, true, nil
}

func (c *ProductCache) SetProducts(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.rdb.Set(ctx, keyActive, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

// Invalidate drops every product listing key.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	var keys []string

	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("iter.Err: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}

	return nil
}

// Noop never hits, used when no Redis is configured.
type Noop struct{}

func (Noop) GetProducts(ctx context.Context) ([]domain.Product, bool, error)  { return nil, false, nil }
func (Noop) SetProducts(ctx context.Context, products []domain.Product) error { return nil }
func (Noop) Invalidate(ctx context.Context) error                             { return nil }
