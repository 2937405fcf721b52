package usecase

import (
	"context"
	"errors"
	"testing"

	"pizzahunt/internal/domain"
	"pizzahunt/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type failingOrders struct {
	domain.OrderRepository
}

func (failingOrders) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return nil, errDiskFull
}

type failingClear struct {
	domain.CartRepository
}

func (failingClear) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	return 0, errDiskFull
}

// faultyTx hands fn repositories with one of them swapped for a failing one.
type faultyTx struct {
	inner domain.TxManager
	wrap  func(repos domain.Repositories) domain.Repositories
}

func (f faultyTx) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return f.inner.WithinTx(ctx, func(repos domain.Repositories) error {
		return fn(f.wrap(repos))
	})
}

func validDetails() domain.CheckoutDetails {
	return domain.CheckoutDetails{
		Name:    " Ivan Petrov ",
		Phone:   "+7 900 000-00-00",
		Email:   "Ivan@Example.com",
		Address: "Lenina 1",
	}
}

func TestCheckoutScenario(t *testing.T) {
	f := newFixture(t)
	carts := f.cartUseCase()
	checkout := NewCheckoutUseCase(f.store, logger.Discard())
	ctx := context.Background()
	owner := domain.UserOwner(7)

	_, err := carts.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 2))
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, owner, domain.AddItemInput{Kind: domain.KindCombo, ItemID: f.family.ID})
	require.NoError(t, err)

	order, err := checkout.Checkout(ctx, owner, validDetails())
	require.NoError(t, err)

	assert.Equal(t, "45.00", order.TotalPrice.StringFixed(2))
	assert.Equal(t, domain.StatusNew, order.Status)
	assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
	assert.False(t, order.PaymentStatus)
	assert.Equal(t, "Ivan Petrov", order.Name)
	assert.Equal(t, "ivan@example.com", order.Email)
	require.NotNil(t, order.UserID)
	assert.Equal(t, int64(7), *order.UserID)
	require.NotNil(t, order.CartID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Margherita", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "20.00", order.Items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, domain.KindCombo, order.Items[1].Kind)

	cart, err := carts.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, *order.CartID, cart.ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	checkout := NewCheckoutUseCase(f.store, logger.Discard())
	owner := domain.SessionOwner("s1")

	_, err := checkout.Checkout(context.Background(), owner, validDetails())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = NewOrderUseCase(f.store, logger.Discard()).GetOrder(context.Background(), owner, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	checkout := NewCheckoutUseCase(f.store, logger.Discard())
	owner := domain.SessionOwner("s1")
	_, err := f.cartUseCase().AddItem(context.Background(), owner, pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)

	cases := map[string]func(d *domain.CheckoutDetails){
		"missing name":    func(d *domain.CheckoutDetails) { d.Name = "  " },
		"missing phone":   func(d *domain.CheckoutDetails) { d.Phone = "" },
		"missing address": func(d *domain.CheckoutDetails) { d.Address = "" },
		"bad email":       func(d *domain.CheckoutDetails) { d.Email = "nope" },
		"bad payment":     func(d *domain.CheckoutDetails) { d.PaymentMethod = "bitcoin" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			details := validDetails()
			mutate(&details)
			_, err := checkout.Checkout(context.Background(), owner, details)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	cart, err := f.cartUseCase().GetCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutRollsBackWhenOrderInsertFails(t *testing.T) {
	f := newFixture(t)
	owner := domain.SessionOwner("s1")
	_, err := f.cartUseCase().AddItem(context.Background(), owner, pizzaInput(f.margherita, domain.Size30, 2))
	require.NoError(t, err)

	checkout := NewCheckoutUseCase(faultyTx{inner: f.store, wrap: func(repos domain.Repositories) domain.Repositories {
		repos.Orders = failingOrders{repos.Orders}
		return repos
	}}, logger.Discard())

	_, err = checkout.Checkout(context.Background(), owner, validDetails())
	assert.ErrorIs(t, err, errDiskFull)

	cart, err := f.cartUseCase().GetCart(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCheckoutRollsBackOrderWhenClearFails(t *testing.T) {
	f := newFixture(t)
	owner := domain.SessionOwner("s1")
	_, err := f.cartUseCase().AddItem(context.Background(), owner, pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)

	checkout := NewCheckoutUseCase(faultyTx{inner: f.store, wrap: func(repos domain.Repositories) domain.Repositories {
		repos.Carts = failingClear{repos.Carts}
		return repos
	}}, logger.Discard())

	_, err = checkout.Checkout(context.Background(), owner, validDetails())
	assert.ErrorIs(t, err, errDiskFull)

	_, err = f.store.GetOrderByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	cart, err := f.cartUseCase().GetCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	f := newFixture(t)
	owner := domain.SessionOwner("s1")
	ctx := context.Background()
	_, err := f.cartUseCase().AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size40, 1))
	require.NoError(t, err)

	order, err := NewCheckoutUseCase(f.store, logger.Discard()).Checkout(ctx, owner, validDetails())
	require.NoError(t, err)
	f.store.RemovePizza(f.margherita.ID)

	stored, err := NewOrderUseCase(f.store, logger.Discard()).GetOrder(ctx, owner, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Margherita", stored.Items[0].Name)
	assert.Equal(t, "15.00", stored.TotalPrice.StringFixed(2))
}
