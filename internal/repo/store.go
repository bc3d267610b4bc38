package repo

import "context"

// Store groups the transactional repositories. Everything done through the Store
// passed to fn commits or rolls back together.
type Store interface {
	Carts() CartRepository
	Orders() OrderRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
