package port

import (
	"context"
)

// Tx exposes the repositories bound to one transactional scope.
type Tx interface {
	Orders() OrderRepository
	Products() ProductRepository
}

// Store is one persistence backend.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Favorites() FavoriteRepository

	// WithinTx runs fn in a transactional scope. When fn returns an error every write
	// made through tx is undone, fully if Atomic reports true, best effort otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// Atomic reports whether WithinTx is backed by a real transaction.
	Atomic() bool

	Ping(ctx context.Context) error
	Close()
}
