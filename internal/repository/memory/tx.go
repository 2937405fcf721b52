package memory

import (
	"context"

	"pizzahunt/internal/domain"
)

// txRepos is the view of the store handed to WithinTx callbacks. Its writes
// run under the transaction already held; reads are promoted from Store.
type txRepos struct {
	*Store
}

var (
	_ domain.CartRepository  = txRepos{}
	_ domain.OrderRepository = txRepos{}
)

func (r txRepos) repositories() domain.Repositories {
	return domain.Repositories{Catalog: r.Store, Carts: r, Orders: r}
}

func (r txRepos) GetOrCreateCart(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	return r.getOrCreateCart(ctx, ownerKey)
}

func (r txRepos) AddItem(ctx context.Context, cartID int64, key domain.LineKey, quantity int) (int64, error) {
	return r.addItem(ctx, cartID, key, quantity)
}

func (r txRepos) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return r.setItemQuantity(ctx, itemID, quantity)
}

func (r txRepos) DeleteItem(ctx context.Context, itemID int64) error {
	return r.deleteItem(ctx, itemID)
}

func (r txRepos) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	return r.clearCart(ctx, cartID)
}

func (r txRepos) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return r.createOrder(ctx, order)
}

func (r txRepos) UpdateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	return r.updateOrderStatus(ctx, id, from, to)
}

// Autocommit writes. Each waits for running transactions and is undone only
// by its own failure.

func (s *Store) GetOrCreateCart(ctx context.Context, ownerKey string) (cart *domain.Cart, err error) {
	err = s.WithinTx(ctx, func(domain.Repositories) error {
		cart, err = s.getOrCreateCart(ctx, ownerKey)
		return err
	})
	return cart, err
}

func (s *Store) AddItem(ctx context.Context, cartID int64, key domain.LineKey, quantity int) (id int64, err error) {
	err = s.WithinTx(ctx, func(domain.Repositories) error {
		id, err = s.addItem(ctx, cartID, key, quantity)
		return err
	})
	return id, err
}

func (s *Store) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return s.WithinTx(ctx, func(domain.Repositories) error {
		return s.setItemQuantity(ctx, itemID, quantity)
	})
}

func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	return s.WithinTx(ctx, func(domain.Repositories) error {
		return s.deleteItem(ctx, itemID)
	})
}

func (s *Store) ClearCart(ctx context.Context, cartID int64) (removed int64, err error) {
	err = s.WithinTx(ctx, func(domain.Repositories) error {
		removed, err = s.clearCart(ctx, cartID)
		return err
	})
	return removed, err
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) (created *domain.Order, err error) {
	err = s.WithinTx(ctx, func(domain.Repositories) error {
		created, err = s.createOrder(ctx, order)
		return err
	})
	return created, err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (updated *domain.Order, err error) {
	err = s.WithinTx(ctx, func(domain.Repositories) error {
		updated, err = s.updateOrderStatus(ctx, id, from, to)
		return err
	})
	return updated, err
}
