package memory

import (
	"context"
	"fmt"
	"sort"

	"pizzahunt/internal/domain"
)

// product resolves a line key against the catalog. Callers hold s.mu.
func (s *Store) product(key domain.LineKey) (domain.Product, bool) {
	switch key.Kind {
	case domain.KindPizza:
		p, ok := s.pizzas[key.Ref]
		return domain.PizzaLine{Pizza: p, Diameter: key.Size}, ok
	case domain.KindCombo:
		c, ok := s.combos[key.Ref]
		return domain.ComboLine{Combo: c}, ok
	}
	return nil, false
}

func (s *Store) cartItem(row itemRow) (domain.CartItem, bool) {
	product, ok := s.product(row.key)
	if !ok {
		return domain.CartItem{}, false
	}
	return domain.CartItem{
		ID:       row.id,
		CartID:   row.cartID,
		Product:  product,
		Quantity: row.quantity,
		AddedAt:  row.addedAt,
	}, true
}

func (s *Store) loadCart(cart domain.Cart) *domain.Cart {
	cart.Items = []domain.CartItem{}
	for _, row := range s.tx.items {
		if row.cartID != cart.ID {
			continue
		}
		if item, ok := s.cartItem(row); ok {
			cart.Items = append(cart.Items, item)
		}
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].ID < cart.Items[j].ID })
	return &cart
}

func (s *Store) getOrCreateCart(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tx.cartByOwner[ownerKey]; ok {
		return s.loadCart(s.tx.carts[id]), nil
	}

	s.tx.nextCartID++
	now := s.now()
	cart := domain.Cart{ID: s.tx.nextCartID, OwnerKey: ownerKey, CreatedAt: now, UpdatedAt: now}
	s.tx.carts[cart.ID] = cart
	s.tx.cartByOwner[ownerKey] = cart.ID
	s.log.Debugf("Repository: Created cart %d for %s", cart.ID, ownerKey)
	return s.loadCart(cart), nil
}

func (s *Store) GetCartByID(ctx context.Context, cartID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.tx.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
	}
	return s.loadCart(cart), nil
}

// LockCart only checks existence; WithinTx already serializes cart mutations.
func (s *Store) LockCart(ctx context.Context, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tx.carts[cartID]; !ok {
		return fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tx.items[itemID]
	if !ok {
		return nil, fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
	}
	item, ok := s.cartItem(row)
	if !ok {
		return nil, fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
	}
	return &item, nil
}

func (s *Store) touch(cartID int64) {
	if cart, ok := s.tx.carts[cartID]; ok {
		cart.UpdatedAt = s.now()
		s.tx.carts[cartID] = cart
	}
}

func (s *Store) addItem(ctx context.Context, cartID int64, key domain.LineKey, quantity int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tx.carts[cartID]; !ok {
		return 0, fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
	}
	if quantity < 1 {
		return 0, fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidInput)
	}

	for id, row := range s.tx.items {
		if row.cartID == cartID && row.key == key {
			row.quantity += quantity
			s.tx.items[id] = row
			s.touch(cartID)
			return id, nil
		}
	}

	s.tx.nextItemID++
	row := itemRow{id: s.tx.nextItemID, cartID: cartID, key: key, quantity: quantity, addedAt: s.now()}
	s.tx.items[row.id] = row
	s.touch(cartID)
	return row.id, nil
}

func (s *Store) setItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tx.items[itemID]
	if !ok {
		return fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidInput)
	}
	row.quantity = quantity
	s.tx.items[itemID] = row
	s.touch(row.cartID)
	return nil
}

func (s *Store) deleteItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tx.items[itemID]
	if !ok {
		return fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
	}
	delete(s.tx.items, itemID)
	s.touch(row.cartID)
	return nil
}

func (s *Store) clearCart(ctx context.Context, cartID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, row := range s.tx.items {
		if row.cartID == cartID {
			delete(s.tx.items, id)
			removed++
		}
	}
	s.touch(cartID)
	return removed, nil
}
