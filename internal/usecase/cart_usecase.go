package usecase

import (
	"context"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	tx  domain.TxManager
	log *logrus.Logger
}

func NewCartUseCase(tx domain.TxManager, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		tx:  tx,
		log: logger,
	}
}

// lockedCart gets or creates the owner's cart, locks it for the rest of the
// transaction and returns its current contents.
func lockedCart(ctx context.Context, repos domain.Repositories, owner domain.Owner) (*domain.Cart, error) {
	cart, err := repos.Carts.GetOrCreateCart(ctx, owner.Key())
	if err != nil {
		return nil, err
	}
	if err := repos.Carts.LockCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	return repos.Carts.GetCartByID(ctx, cart.ID)
}

func checkOwner(owner domain.Owner) error {
	if !owner.Valid() {
		return invalid("cart owner is not identified")
	}
	return nil
}

func newCartResult(cart *domain.Cart, message string, itemID int64) *domain.CartResult {
	totals := domain.CartTotals{
		TotalPrice:    cart.TotalPrice(),
		TotalQuantity: cart.TotalQuantity(),
		ItemTotal:     decimal.Zero,
	}
	if item, ok := cart.Item(itemID); ok {
		totals.ItemTotal = item.LineTotal()
	}
	return &domain.CartResult{
		Success: true,
		Message: message,
		Totals:  totals,
		Cart:    cart,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	var cart *domain.Cart
	err := uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		cart, err = repos.Carts.GetOrCreateCart(ctx, owner.Key())
		return err
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load cart for %s: %v", owner, err)
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) resolveProduct(ctx context.Context, catalog domain.CatalogRepository, input domain.AddItemInput) (domain.Product, error) {
	switch input.Kind {
	case domain.KindPizza:
		pizza, err := catalog.GetPizzaByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		return domain.PizzaLine{Pizza: *pizza, Diameter: input.Size}, nil
	case domain.KindCombo:
		combo, err := catalog.GetComboByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		return domain.ComboLine{Combo: *combo}, nil
	default:
		return nil, invalid("unknown item type %q", input.Kind)
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, owner domain.Owner, input domain.AddItemInput) (*domain.CartResult, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	if !domain.IsValidKind(input.Kind) {
		uc.log.Warnf("Use Case: Add to cart rejected - unknown item type %q", input.Kind)
		return nil, invalid("unknown item type %q", input.Kind)
	}
	if input.ItemID <= 0 {
		return nil, invalid("item id must be positive")
	}
	switch input.Kind {
	case domain.KindPizza:
		if !domain.IsValidSize(input.Size) {
			return nil, invalid("unknown pizza size %d", input.Size)
		}
	case domain.KindCombo:
		input.Size = 0
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 {
		return nil, invalid("quantity must be positive")
	}

	var result *domain.CartResult
	err := uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		product, err := uc.resolveProduct(ctx, repos.Catalog, input)
		if err != nil {
			return err
		}
		cart, err := lockedCart(ctx, repos, owner)
		if err != nil {
			return err
		}
		key := domain.KeyOf(product)
		itemID, err := repos.Carts.AddItem(ctx, cart.ID, key, input.Quantity)
		if err != nil {
			return err
		}
		if cart, err = repos.Carts.GetCartByID(ctx, cart.ID); err != nil {
			return err
		}
		uc.log.Infof("Use Case: Added %d x %s to cart %d of %s", input.Quantity, key, cart.ID, owner)
		result = newCartResult(cart, fmt.Sprintf("%s added to cart", product.Name()), itemID)
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Add to cart failed for %s: %v", owner, err)
		return nil, err
	}
	return result, nil
}

// ownedItem loads a line and checks it lives in cart.
func ownedItem(ctx context.Context, repos domain.Repositories, cart *domain.Cart, itemID int64) (*domain.CartItem, error) {
	item, err := repos.Carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, fmt.Errorf("cart item %d is not in your cart: %w", itemID, domain.ErrForbidden)
	}
	return item, nil
}

func (uc *cartUseCase) UpdateItem(ctx context.Context, owner domain.Owner, itemID int64, quantity int) (*domain.CartResult, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	var result *domain.CartResult
	err := uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		cart, err := lockedCart(ctx, repos, owner)
		if err != nil {
			return err
		}
		if _, err := ownedItem(ctx, repos, cart, itemID); err != nil {
			return err
		}

		message := "Quantity updated"
		if quantity <= 0 {
			err = repos.Carts.DeleteItem(ctx, itemID)
			message = "Item removed from cart"
		} else {
			err = repos.Carts.SetItemQuantity(ctx, itemID, quantity)
		}
		if err != nil {
			return err
		}

		if cart, err = repos.Carts.GetCartByID(ctx, cart.ID); err != nil {
			return err
		}
		result = newCartResult(cart, message, itemID)
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Update of cart item %d failed for %s: %v", itemID, owner, err)
		return nil, err
	}
	return result, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, owner domain.Owner, itemID int64) (*domain.CartResult, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	var result *domain.CartResult
	err := uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		cart, err := lockedCart(ctx, repos, owner)
		if err != nil {
			return err
		}
		if _, err := ownedItem(ctx, repos, cart, itemID); err != nil {
			return err
		}
		if err := repos.Carts.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		if cart, err = repos.Carts.GetCartByID(ctx, cart.ID); err != nil {
			return err
		}
		result = newCartResult(cart, "Item removed from cart", itemID)
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Removal of cart item %d failed for %s: %v", itemID, owner, err)
		return nil, err
	}
	return result, nil
}

func (uc *cartUseCase) Clear(ctx context.Context, owner domain.Owner) (*domain.CartResult, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	var result *domain.CartResult
	err := uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		cart, err := lockedCart(ctx, repos, owner)
		if err != nil {
			return err
		}
		removed, err := repos.Carts.ClearCart(ctx, cart.ID)
		if err != nil {
			return err
		}
		if cart, err = repos.Carts.GetCartByID(ctx, cart.ID); err != nil {
			return err
		}
		uc.log.Infof("Use Case: Cleared %d lines from cart %d of %s", removed, cart.ID, owner)
		result = newCartResult(cart, "Cart cleared", 0)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Clearing cart failed for %s: %v", owner, err)
		return nil, err
	}
	return result, nil
}
