package repository

import "context"

// Store groups the repositories so that services can run several writes in
// one database transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
