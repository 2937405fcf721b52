package domain

import "context"

// Repositories groups the repositories that take part in one unit of work.
type Repositories struct {
	Catalog CatalogRepository
	Carts   CartRepository
	Orders  OrderRepository
}

// TxManager runs fn inside a transaction. The repositories handed to fn are
// bound to it: the work commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
