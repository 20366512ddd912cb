package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/port"
)

// Store is the Postgres backend. WithinTx runs in a real transaction.
type Store struct {
	pool *pgxpool.Pool

	users     port.UserRepository
	products  port.ProductRepository
	orders    port.OrderRepository
	favorites port.FavoriteRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:      pool,
		users:     NewUser(pool),
		products:  NewProduct(pool),
		orders:    NewOrder(pool),
		favorites: NewFavorite(pool),
	}
}

func (s *Store) Users() port.UserRepository         { return s.users }
func (s *Store) Products() port.ProductRepository   { return s.products }
func (s *Store) Orders() port.OrderRepository       { return s.orders }
func (s *Store) Favorites() port.FavoriteRepository { return s.favorites }

func (s *Store) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	_, err := inTx(ctx, s.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(storeTx{
			orders:   NewOrderWithTx(tx),
			products: NewProductWithTx(tx),
		})
	})
	return err
}

func (s *Store) Atomic() bool {
	return true
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

type storeTx struct {
	orders   port.OrderRepository
	products port.ProductRepository
}

func (t storeTx) Orders() port.OrderRepository     { return t.orders }
func (t storeTx) Products() port.ProductRepository { return t.products }
