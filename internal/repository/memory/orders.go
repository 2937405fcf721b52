package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pizzahunt/internal/domain"
)

func copyOrder(o domain.Order) *domain.Order {
	o.Items = append([]domain.OrderItem{}, o.Items...)
	return &o
}

func (s *Store) createOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.TotalPrice.IsNegative() {
		return nil, fmt.Errorf("negative total: %w", domain.ErrInvalidInput)
	}
	if !domain.IsValidStatus(order.Status) || !domain.IsValidPaymentMethod(order.PaymentMethod) {
		return nil, fmt.Errorf("invalid order data: %w", domain.ErrInvalidInput)
	}

	s.tx.nextOrderID++
	now := s.now()
	order.ID = s.tx.nextOrderID
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		if order.Items[i].Quantity < 1 {
			return nil, fmt.Errorf("invalid item data (%s): %w", order.Items[i].Name, domain.ErrInvalidInput)
		}
		s.tx.nextLineID++
		order.Items[i].ID = s.tx.nextLineID
		order.Items[i].OrderID = order.ID
	}
	s.tx.orders[order.ID] = *copyOrder(*order)
	s.log.Infof("Repository: Order %d created with %d items", order.ID, len(order.Items))
	return order, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.tx.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	return copyOrder(order), nil
}

func (s *Store) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range s.tx.orders {
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, *copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	if offset >= len(orders) {
		return []domain.Order{}, nil
	}
	orders = orders[offset:]
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *Store) updateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.tx.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
	}
	if order.Status != from {
		return nil, fmt.Errorf("order %d is not %s: %w", id, from, domain.ErrConflict)
	}
	order.Status = to
	order.UpdatedAt = s.now()
	s.tx.orders[id] = order
	return copyOrder(order), nil
}

// DeleteCart removes a cart with its lines. Orders keep their data and lose
// the cart reference.
func (s *Store) DeleteCart(cartID int64) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.tx.carts[cartID]
	if !ok {
		return
	}
	delete(s.tx.carts, cartID)
	delete(s.tx.cartByOwner, cart.OwnerKey)
	for id, row := range s.tx.items {
		if row.cartID == cartID {
			delete(s.tx.items, id)
		}
	}
	for id, o := range s.tx.orders {
		if o.CartID != nil && *o.CartID == cartID {
			o.CartID = nil
			s.tx.orders[id] = o
		}
	}
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return nil, fmt.Errorf("user with username '%s' or email '%s' already exists: %w", user.Username, user.Email, domain.ErrConflict)
		}
	}
	now := s.now()
	user.ID = s.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s %w", login, domain.ErrNotFound)
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return nil, fmt.Errorf("user with id %d %w", user.ID, domain.ErrNotFound)
	}
	for id, u := range s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, fmt.Errorf("email '%s' is already taken: %w", user.Email, domain.ErrConflict)
		}
	}
	stored.Email = user.Email
	stored.Phone = user.Phone
	stored.Address = user.Address
	stored.BirthDate = user.BirthDate
	stored.Newsletter = user.Newsletter
	stored.UpdatedAt = s.now()
	s.users[user.ID] = stored
	return &stored, nil
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !domain.IsValidSubject(feedback.Subject) {
		return nil, fmt.Errorf("unknown subject %q: %w", feedback.Subject, domain.ErrInvalidInput)
	}
	feedback.ID = s.id()
	feedback.CreatedAt = s.now()
	s.feedback = append(s.feedback, *feedback)
	return feedback, nil
}

// Feedback returns all stored feedback messages.
func (s *Store) Feedback() []domain.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Feedback{}, s.feedback...)
}
