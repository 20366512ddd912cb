package tablestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/redis/go-redis/v9"
)

// Store is the Redis backend. WithinTx is not atomic: a failed scope is undone by
// compensating writes, and a crash or a failing compensation leaves partial data behind.
type Store struct {
	rdb *redis.Client

	users     port.UserRepository
	products  port.ProductRepository
	orders    port.OrderRepository
	favorites port.FavoriteRepository
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{
		rdb:       rdb,
		users:     NewUser(rdb),
		products:  NewProduct(rdb),
		orders:    NewOrder(rdb),
		favorites: NewFavorite(rdb),
	}
}

func (s *Store) Users() port.UserRepository         { return s.users }
func (s *Store) Products() port.ProductRepository   { return s.products }
func (s *Store) Orders() port.OrderRepository       { return s.orders }
func (s *Store) Favorites() port.FavoriteRepository { return s.favorites }

func (s *Store) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	j := &journal{}

	scope := storeTx{
		orders:   &orderRepository{rdb: s.rdb, journal: j},
		products: &productRepository{rdb: s.rdb, journal: j},
	}

	err := fn(scope)
	if err == nil {
		return nil
	}

	// compensate even when the caller's context is already cancelled
	if undoErr := j.compensate(context.WithoutCancel(ctx)); undoErr != nil {
		slog.Error("compensation failed, store left partially written",
			"method", "Store.WithinTx",
			"error", undoErr)
		return errors.Join(err, fmt.Errorf("j.compensate: %w", undoErr))
	}

	return err
}

func (s *Store) Atomic() bool {
	return false
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() {
	if err := s.rdb.Close(); err != nil {
		slog.Warn("redis close failed", "method", "Store.Close", "error", err)
	}
}

type storeTx struct {
	orders   port.OrderRepository
	products port.ProductRepository
}

func (t storeTx) Orders() port.OrderRepository     { return t.orders }
func (t storeTx) Products() port.ProductRepository { return t.products }
