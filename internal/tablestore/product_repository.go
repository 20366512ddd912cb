package tablestore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/redis/go-redis/v9"
)

const (
	stockMissing      = -1
	stockInsufficient = -2
)

// KEYS[1] = stock key, ARGV[1] = quantity
var decrementGuardedScript = redis.NewScript(`
local stock = redis.call('GET', KEYS[1])
if not stock then
	return -1
end
if tonumber(stock) < tonumber(ARGV[1]) then
	return -2
end
redis.call('DECRBY', KEYS[1], ARGV[1])
return 1
`)

// KEYS[1] = stock key, ARGV[1] = quantity
var decrementUncheckedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('DECRBY', KEYS[1], ARGV[1])
return 1
`)

type productRepository struct {
	rdb     *redis.Client
	journal *journal
}

func NewProduct(rdb *redis.Client) port.ProductRepository {
	return &productRepository{rdb: rdb}
}

func (r *productRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	values, err := r.rdb.MGet(ctx, productKey(productID), productStockKey(productID)).Result()
	if err != nil {
		return domain.Product{}, fmt.Errorf("rdb.MGet: %w", err)
	}

	product, found, err := productFromValues(values[0], values[1])
	if err != nil {
		return domain.Product{}, fmt.Errorf("productFromValues: %w", err)
	}
	if !found {
		return domain.Product{}, fmt.Errorf("rdb.MGet: %w", domain.ErrProductNotFound)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	members, err := r.rdb.ZRevRange(ctx, keyProducts, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.ZRevRange: %w", err)
	}

	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, 2*len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseInt[%s]: %w", member, err)
		}
		keys = append(keys, productKey(id), productStockKey(id))
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.MGet: %w", err)
	}

	products := make([]domain.Product, 0, len(members))
	for i := 0; i < len(values); i += 2 {
		product, found, err := productFromValues(values[i], values[i+1])
		if err != nil {
			return nil, fmt.Errorf("productFromValues: %w", err)
		}
		if !found {
			continue
		}
		if onlyActive && product.Status != domain.ProductStatusActive {
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (int64, error) {
	if product.Name == "" {
		return 0, fmt.Errorf("name is empty")
	}

	id, err := nextID(ctx, r.rdb, "products")
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	raw, err := encode(toProductRecord(product))
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, productKey(id), raw, 0)
		pipe.Set(ctx, productStockKey(id), product.Stock, 0)
		pipe.ZAdd(ctx, keyProducts, redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return id, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	existing, err := r.GetProduct(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("r.GetProduct: %w", err)
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	raw, err := encode(toProductRecord(product))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetXX(ctx, productKey(product.ID), raw, redis.KeepTTL)
		pipe.Set(ctx, productStockKey(product.ID), product.Stock, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID int64) error {
	var del *redis.IntCmd

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, productKey(productID), productStockKey(productID))
		pipe.ZRem(ctx, keyProducts, productID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	if del.Val() == 0 {
		return fmt.Errorf("rdb.Del: %w", domain.ErrProductNotFound)
	}

	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID int64, quantity int, policy domain.StockPolicy) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive: %d", quantity)
	}

	var script *redis.Script
	switch policy {
	case domain.StockPolicyGuarded:
		script = decrementGuardedScript
	case domain.StockPolicyUnchecked:
		script = decrementUncheckedScript
	default:
		return fmt.Errorf("unknown stock policy[%s]", policy)
	}

	stockKey := productStockKey(productID)

	result, err := script.Run(ctx, r.rdb, []string{stockKey}, quantity).Int()
	if err != nil {
		return fmt.Errorf("script.Run: %w", err)
	}

	switch {
	case result == stockMissing && policy == domain.StockPolicyUnchecked:
		return nil
	case result == stockMissing:
		return fmt.Errorf("script.Run[%d]: %w", productID, domain.ErrProductNotFound)
	case result == stockInsufficient:
		return fmt.Errorf("script.Run[%d]: %w", productID, domain.ErrInsufficientStock)
	}

	r.journal.record("restore stock "+stockKey, func(ctx context.Context) error {
		return r.rdb.IncrBy(ctx, stockKey, int64(quantity)).Err()
	})

	return nil
}

func productFromValues(rawProduct, rawStock any) (domain.Product, bool, error) {
	if rawProduct == nil {
		return domain.Product{}, false, nil
	}

	productStr, ok := rawProduct.(string)
	if !ok {
		return domain.Product{}, false, fmt.Errorf("unexpected product value %T", rawProduct)
	}

	rec, err := decode[productRecord](productStr)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("decode: %w", err)
	}

	var stock int
	if stockStr, ok := rawStock.(string); ok {
		stock, err = strconv.Atoi(stockStr)
		if err != nil {
			return domain.Product{}, false, fmt.Errorf("strconv.Atoi[%s]: %w", stockStr, err)
		}
	}

	product, err := rec.toDomain(stock)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("rec.toDomain: %w", err)
	}

	return product, true, nil
}
