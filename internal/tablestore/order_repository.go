package tablestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

type orderRepository struct {
	rdb     *redis.Client
	journal *journal
}

func NewOrder(rdb *redis.Client) port.OrderRepository {
	return &orderRepository{rdb: rdb}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("orderID is empty")
	}

	var (
		get   *redis.StringCmd
		lines *redis.StringSliceCmd
	)

	_, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, orderKey(orderID))
		lines = pipe.LRange(ctx, orderLinesKey(orderID), 0, -1)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Order{}, fmt.Errorf("rdb.Pipelined: %w", err)
	}

	if errors.Is(get.Err(), redis.Nil) {
		return domain.Order{}, fmt.Errorf("rdb.Get: %w", domain.ErrOrderNotFound)
	}

	return decodeOrder(get.Val(), lines.Val())
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) error {
	if order.ID == "" {
		return fmt.Errorf("orderID is empty")
	}

	userExists, err := r.rdb.Exists(ctx, userKey(order.UserID)).Result()
	if err != nil {
		return fmt.Errorf("rdb.Exists: %w", err)
	}
	if userExists == 0 {
		return fmt.Errorf("rdb.Exists: %w", domain.ErrUserNotFound)
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	raw, err := encode(toOrderRecord(order))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	// SETNX is the primary key check
	ok, err := r.rdb.SetNX(ctx, orderKey(order.ID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("rdb.SetNX: %w", err)
	}
	if !ok {
		return fmt.Errorf("rdb.SetNX: %w", domain.ErrOrderExists)
	}

	r.journal.record("delete order "+order.ID, func(ctx context.Context) error {
		return r.deleteOrderKeys(ctx, order.ID, order.UserID)
	})

	score := float64(now.UnixMilli())

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, keyOrders, redis.Z{Score: score, Member: order.ID})
		pipe.ZAdd(ctx, userOrdersKey(order.UserID), redis.Z{Score: score, Member: order.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return nil
}

func (r *orderRepository) InsertOrderLine(ctx context.Context, line domain.OrderLine) (int64, error) {
	if line.OrderID == "" {
		return 0, fmt.Errorf("orderID is empty")
	}

	exists, err := r.rdb.Exists(ctx, orderKey(line.OrderID)).Result()
	if err != nil {
		return 0, fmt.Errorf("rdb.Exists: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("rdb.Exists: %w", domain.ErrOrderNotFound)
	}

	id, err := nextID(ctx, r.rdb, "order_lines")
	if err != nil {
		return 0, err
	}

	line.ID = id
	line.CreatedAt = time.Now().UTC()

	raw, err := encode(toOrderLineRecord(line))
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}

	if err := r.rdb.RPush(ctx, orderLinesKey(line.OrderID), raw).Err(); err != nil {
		return 0, fmt.Errorf("rdb.RPush: %w", err)
	}

	r.journal.record("remove line "+strconv.FormatInt(id, 10), func(ctx context.Context) error {
		return r.rdb.LRem(ctx, orderLinesKey(line.OrderID), 1, raw).Err()
	})

	return id, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var orderIDs []string

	if len(filter.UserIDs) > 0 {
		for _, userID := range lo.Uniq(filter.UserIDs) {
			ids, err := r.rdb.ZRange(ctx, userOrdersKey(userID), 0, -1).Result()
			if err != nil {
				return nil, fmt.Errorf("rdb.ZRange: %w", err)
			}
			orderIDs = append(orderIDs, ids...)
		}
	} else {
		ids, err := r.rdb.ZRange(ctx, keyOrders, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("rdb.ZRange: %w", err)
		}
		orderIDs = ids
	}

	var orders []domain.Order
	for _, orderID := range orderIDs {
		order, err := r.GetOrder(ctx, orderID)
		if err != nil {
			// removed between the index read and now
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("r.GetOrder: %w", err)
		}

		if filter.Match(order) {
			orders = append(orders, order)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if orderID == "" {
		return fmt.Errorf("orderID is empty")
	}

	if status == "" {
		return fmt.Errorf("status is empty")
	}

	raw, err := r.rdb.Get(ctx, orderKey(orderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("rdb.Get: %w", domain.ErrOrderNotFound)
		}
		return fmt.Errorf("rdb.Get: %w", err)
	}

	rec, err := decode[orderRecord](raw)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	rec.Status = string(status)
	rec.UpdatedAt = time.Now().UTC()

	updated, err := encode(rec)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	ok, err := r.rdb.SetXX(ctx, orderKey(orderID), updated, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("rdb.SetXX: %w", err)
	}
	if !ok {
		return fmt.Errorf("rdb.SetXX: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("orderID is empty")
	}

	raw, err := r.rdb.Get(ctx, orderKey(orderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("rdb.Get: %w", domain.ErrOrderNotFound)
		}
		return fmt.Errorf("rdb.Get: %w", err)
	}

	rec, err := decode[orderRecord](raw)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err := r.deleteOrderKeys(ctx, orderID, rec.UserID); err != nil {
		return fmt.Errorf("r.deleteOrderKeys: %w", err)
	}

	return nil
}

func (r *orderRepository) deleteOrderKeys(ctx context.Context, orderID string, userID int64) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, orderKey(orderID), orderLinesKey(orderID))
		pipe.ZRem(ctx, keyOrders, orderID)
		pipe.ZRem(ctx, userOrdersKey(userID), orderID)
		return nil
	})
	return err
}

func decodeOrder(rawOrder string, rawLines []string) (domain.Order, error) {
	rec, err := decode[orderRecord](rawOrder)
	if err != nil {
		return domain.Order{}, fmt.Errorf("decode: %w", err)
	}

	order, err := rec.toDomain()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rec.toDomain: %w", err)
	}

	for _, rawLine := range rawLines {
		lineRec, err := decode[orderLineRecord](rawLine)
		if err != nil {
			return domain.Order{}, fmt.Errorf("decode: %w", err)
		}
		order.Items = append(order.Items, lineRec.toDomain())
	}

	return order, nil
}
