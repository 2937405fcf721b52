package usecase

import (
	"context"
	"sync"
	"testing"

	"pizzahunt/internal/domain"
	"pizzahunt/internal/repository/memory"
	"pizzahunt/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	margherita domain.Pizza
	pepperoni  domain.Pizza
	family     domain.Combo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(logger.Discard())
	category := store.AddCategory(domain.Category{Name: "Classic", Slug: "classic"})
	return &fixture{
		store: store,
		margherita: store.AddPizza(domain.Pizza{
			Name: "Margherita", Slug: "margherita", CategoryID: category.ID,
			Price30: decimal.RequireFromString("10.00"),
			Price35: decimal.RequireFromString("12.50"),
			Price40: decimal.RequireFromString("15.00"),
			IsPopular: true, IsVegetarian: true,
		}),
		pepperoni: store.AddPizza(domain.Pizza{
			Name: "Pepperoni", Slug: "pepperoni", CategoryID: category.ID,
			Price30: decimal.RequireFromString("11.00"),
			Price35: decimal.RequireFromString("13.00"),
			Price40: decimal.RequireFromString("16.00"),
			IsSpicy: true, IsNew: true,
		}),
		family: store.AddCombo(domain.Combo{Name: "Family", Price: decimal.RequireFromString("25.00")}),
	}
}

func (f *fixture) cartUseCase() domain.CartUseCase {
	return NewCartUseCase(f.store, logger.Discard())
}

func pizzaInput(p domain.Pizza, size domain.Size, qty int) domain.AddItemInput {
	return domain.AddItemInput{Kind: domain.KindPizza, ItemID: p.ID, Size: size, Quantity: qty}
}

func TestAddItemMergesDuplicates(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	_, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)
	result, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 2))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Margherita added to cart", result.Message)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 3, result.Cart.Items[0].Quantity)
	assert.Equal(t, "30.00", result.Totals.ItemTotal.StringFixed(2))
	assert.Equal(t, "30.00", result.Totals.TotalPrice.StringFixed(2))
}

func TestAddItemDistinguishesSizes(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	_, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)
	result, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size40, 1))
	require.NoError(t, err)

	assert.Len(t, result.Cart.Items, 2)
	assert.Equal(t, "25.00", result.Totals.TotalPrice.StringFixed(2))
}

func TestAddItemDefaultsQuantityAndIgnoresComboSize(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()

	result, err := uc.AddItem(context.Background(), domain.SessionOwner("s1"),
		domain.AddItemInput{Kind: domain.KindCombo, ItemID: f.family.ID, Size: domain.Size35})
	require.NoError(t, err)

	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 1, result.Cart.Items[0].Quantity)
	assert.Equal(t, domain.Size(0), result.Cart.Items[0].Product.Size())
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	tests := []struct {
		name  string
		input domain.AddItemInput
		want  error
	}{
		{"unknown kind", domain.AddItemInput{Kind: "drink", ItemID: 1}, domain.ErrInvalidInput},
		{"bad size", pizzaInput(f.margherita, 25, 1), domain.ErrInvalidInput},
		{"negative quantity", pizzaInput(f.margherita, domain.Size30, -1), domain.ErrInvalidInput},
		{"missing pizza", pizzaInput(domain.Pizza{ID: 999}, domain.Size30, 1), domain.ErrNotFound},
		{"missing combo", domain.AddItemInput{Kind: domain.KindCombo, ItemID: 999}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AddItem(ctx, owner, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	cart, err := uc.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	added, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size35, 1))
	require.NoError(t, err)
	itemID := added.Cart.Items[0].ID

	result, err := uc.UpdateItem(ctx, owner, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, "Quantity updated", result.Message)
	assert.Equal(t, "50.00", result.Totals.ItemTotal.StringFixed(2))
	assert.Equal(t, 4, result.Totals.TotalQuantity)

	result, err = uc.UpdateItem(ctx, owner, itemID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Item removed from cart", result.Message)
	assert.True(t, result.Totals.ItemTotal.IsZero())
	assert.True(t, result.Cart.IsEmpty())

	_, err = uc.UpdateItem(ctx, owner, itemID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForeignOwnerCannotTouchLine(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	alice := domain.SessionOwner("alice")
	bob := domain.SessionOwner("bob")

	added, err := uc.AddItem(ctx, alice, pizzaInput(f.margherita, domain.Size30, 2))
	require.NoError(t, err)
	itemID := added.Cart.Items[0].ID

	_, err = uc.UpdateItem(ctx, bob, itemID, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.RemoveItem(ctx, bob, itemID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cart, err := uc.GetCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUserAndSessionCartsAreSeparate(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()

	_, err := uc.AddItem(ctx, domain.UserOwner(1), pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)

	sessionCart, err := uc.GetCart(ctx, domain.SessionOwner("1"))
	require.NoError(t, err)
	userCart, err := uc.GetCart(ctx, domain.UserOwner(1))
	require.NoError(t, err)

	assert.NotEqual(t, sessionCart.ID, userCart.ID)
	assert.True(t, sessionCart.IsEmpty())
	assert.Len(t, userCart.Items, 1)
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	added, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 1))
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, owner, domain.AddItemInput{Kind: domain.KindCombo, ItemID: f.family.ID})
	require.NoError(t, err)

	result, err := uc.RemoveItem(ctx, owner, added.Cart.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", result.Totals.TotalPrice.StringFixed(2))

	result, err = uc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Cart cleared", result.Message)
	assert.True(t, result.Cart.IsEmpty())

	result, err = uc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.True(t, result.Totals.TotalPrice.IsZero())
}

func TestTotalsIndependentOfOrder(t *testing.T) {
	ctx := context.Background()
	owner := domain.SessionOwner("s1")

	f1 := newFixture(t)
	uc1 := f1.cartUseCase()
	_, err := uc1.AddItem(ctx, owner, pizzaInput(f1.margherita, domain.Size30, 2))
	require.NoError(t, err)
	_, err = uc1.AddItem(ctx, owner, pizzaInput(f1.pepperoni, domain.Size40, 1))
	require.NoError(t, err)
	first, err := uc1.AddItem(ctx, owner, domain.AddItemInput{Kind: domain.KindCombo, ItemID: f1.family.ID})
	require.NoError(t, err)

	f2 := newFixture(t)
	uc2 := f2.cartUseCase()
	_, err = uc2.AddItem(ctx, owner, domain.AddItemInput{Kind: domain.KindCombo, ItemID: f2.family.ID})
	require.NoError(t, err)
	_, err = uc2.AddItem(ctx, owner, pizzaInput(f2.pepperoni, domain.Size40, 1))
	require.NoError(t, err)
	_, err = uc2.AddItem(ctx, owner, pizzaInput(f2.margherita, domain.Size30, 1))
	require.NoError(t, err)
	second, err := uc2.AddItem(ctx, owner, pizzaInput(f2.margherita, domain.Size30, 1))
	require.NoError(t, err)

	assert.Equal(t, "61.00", first.Totals.TotalPrice.StringFixed(2))
	assert.True(t, first.Totals.TotalPrice.Equal(second.Totals.TotalPrice))
	assert.Equal(t, first.Totals.TotalQuantity, second.Totals.TotalQuantity)
}

func TestInvalidOwnerRejected(t *testing.T) {
	uc := newFixture(t).cartUseCase()

	_, err := uc.GetCart(context.Background(), domain.Owner{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConcurrentAddItemMergesIntoOneLine(t *testing.T) {
	f := newFixture(t)
	uc := f.cartUseCase()
	ctx := context.Background()
	owner := domain.SessionOwner("busy")
	const requests = 25

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddItem(ctx, owner, pizzaInput(f.margherita, domain.Size30, 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := uc.GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, requests, cart.Items[0].Quantity)
	assert.Equal(t, "250.00", cart.TotalPrice().StringFixed(2))
}
