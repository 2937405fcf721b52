package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pizzahunt/internal/domain"
	"pizzahunt/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(logger.Discard())
	s.SeedDemo()
	return s
}

func boolPtr(b bool) *bool { return &b }

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	s := NewStore(logger.Discard())
	ctx := context.Background()

	first, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	second, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	other, err := s.GetOrCreateCart(ctx, "session:b")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Empty(t, first.Items)
}

func TestAddItemMergesSameLine(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	cart, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	pizza, err := s.GetPizzaBySlug(ctx, "margherita")
	require.NoError(t, err)

	key := domain.LineKey{Kind: domain.KindPizza, Ref: pizza.ID, Size: domain.Size35}
	id1, err := s.AddItem(ctx, cart.ID, key, 1)
	require.NoError(t, err)
	id2, err := s.AddItem(ctx, cart.ID, key, 2)
	require.NoError(t, err)
	id3, err := s.AddItem(ctx, cart.ID, domain.LineKey{Kind: domain.KindPizza, Ref: pizza.ID, Size: domain.Size40}, 1)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)

	cart, err = s.GetCartByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "1650.00", cart.Items[0].LineTotal().StringFixed(2))
}

func TestWithinTxRestoresOnError(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	cart, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	combos, err := s.ListCombos(ctx, 0)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, cart.ID, domain.LineKey{Kind: domain.KindCombo, Ref: combos[0].ID}, 1)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := repos.Carts.ClearCart(ctx, cart.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	cart, err = s.GetCartByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestRollbackKeepsWritesMadeOutsideTx(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	order, err := s.CreateOrder(ctx, &domain.Order{
		Name: "Ivan", Phone: "+7", Address: "Main st", OwnerKey: "session:a",
		Status: domain.StatusNew, PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)
	cart, err := s.GetOrCreateCart(ctx, "session:b")
	require.NoError(t, err)
	combos, err := s.ListCombos(ctx, 0)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	boom := errors.New("boom")
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := s.WithinTx(ctx, func(repos domain.Repositories) error {
			if _, err := repos.Carts.GetOrCreateCart(ctx, "session:c"); err != nil {
				return err
			}
			close(started)
			<-release
			return boom
		})
		assert.ErrorIs(t, err, boom)
	}()
	<-started

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.UpdateOrderStatus(ctx, order.ID, domain.StatusNew, domain.StatusConfirmed)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := s.AddItem(ctx, cart.ID, domain.LineKey{Kind: domain.KindCombo, Ref: combos[0].ID}, 2)
		assert.NoError(t, err)
	}()
	close(release)
	wg.Wait()

	stored, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	cart, err = s.GetCartByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	s.mu.Lock()
	_, leaked := s.tx.cartByOwner["session:c"]
	s.mu.Unlock()
	assert.False(t, leaked)
}

func TestFailedAutocommitWriteLeavesStateUnchanged(t *testing.T) {
	s := NewStore(logger.Discard())
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, &domain.Order{
		Name: "Ivan", Phone: "+7", Address: "Main st", OwnerKey: "session:a",
		Status: domain.StatusNew, PaymentMethod: domain.PaymentCash,
		Items: []domain.OrderItem{{Name: "Margherita", Quantity: 1}, {Name: "Broken", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.tx.orders)
	assert.Zero(t, s.tx.nextLineID)
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(repos domain.Repositories) error {
		_, err := repos.Carts.GetOrCreateCart(ctx, "user:1")
		return err
	})
	require.NoError(t, err)

	s.mu.Lock()
	_, ok := s.tx.cartByOwner["user:1"]
	s.mu.Unlock()
	assert.True(t, ok)
}

func TestListPizzasFilterAndSort(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	veg, err := s.ListPizzas(ctx, domain.PizzaFilter{Vegetarian: boolPtr(true), Sort: domain.SortName})
	require.NoError(t, err)
	require.Len(t, veg, 2)
	assert.Equal(t, "Маргарита", veg[0].Name)

	cheese, err := s.ListPizzas(ctx, domain.PizzaFilter{NameContains: []string{"сыр"}})
	require.NoError(t, err)
	require.Len(t, cheese, 1)
	assert.Equal(t, "four-cheese", cheese[0].Slug)

	byPrice, err := s.ListPizzas(ctx, domain.PizzaFilter{Sort: domain.SortPriceDesc, Limit: 2})
	require.NoError(t, err)
	require.Len(t, byPrice, 2)
	assert.Equal(t, "bbq", byPrice[0].Slug)
	assert.Equal(t, "diablo", byPrice[1].Slug)

	signature, err := s.ListPizzas(ctx, domain.PizzaFilter{CategorySlug: "signature"})
	require.NoError(t, err)
	assert.Len(t, signature, 2)

	unknown, err := s.ListPizzas(ctx, domain.PizzaFilter{CategorySlug: "nope"})
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestRemovedProductIsHiddenFromCart(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	cart, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	pizza, err := s.GetPizzaBySlug(ctx, "bbq")
	require.NoError(t, err)
	itemID, err := s.AddItem(ctx, cart.ID, domain.LineKey{Kind: domain.KindPizza, Ref: pizza.ID, Size: domain.Size30}, 1)
	require.NoError(t, err)

	s.RemovePizza(pizza.ID)

	cart, err = s.GetCartByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	_, err = s.GetItem(ctx, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrderStatusCompareAndSet(t *testing.T) {
	s := NewStore(logger.Discard())
	ctx := context.Background()
	order, err := s.CreateOrder(ctx, &domain.Order{
		Name: "Ivan", Phone: "+7", Address: "Main st", OwnerKey: "session:a",
		Status: domain.StatusNew, PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(ctx, order.ID, domain.StatusNew, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	_, err = s.UpdateOrderStatus(ctx, order.ID, domain.StatusNew, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.UpdateOrderStatus(ctx, 999, domain.StatusNew, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCartKeepsOrder(t *testing.T) {
	s := NewStore(logger.Discard())
	ctx := context.Background()
	cart, err := s.GetOrCreateCart(ctx, "session:a")
	require.NoError(t, err)
	cartID := cart.ID
	order, err := s.CreateOrder(ctx, &domain.Order{
		Name: "Ivan", Phone: "+7", Address: "Main st", OwnerKey: cart.OwnerKey, CartID: &cartID,
		Status: domain.StatusNew, PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)

	s.DeleteCart(cart.ID)

	stored, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CartID)
	assert.Equal(t, "session:a", stored.OwnerKey)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := NewStore(logger.Discard())
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &domain.User{Username: "ivan", Email: "ivan@example.com"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &domain.User{Username: "other", Email: "IVAN@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byEmail, err := s.GetUserByLogin(ctx, "Ivan@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ivan", byEmail.Username)
}
