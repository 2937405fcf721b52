// Package memory is an in-process storage backend. It implements every
// repository of the domain package and a TxManager that restores the cart
// and order tables when a transaction function fails. Cart and order writes
// made directly on the Store autocommit.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

type itemRow struct {
	id       int64
	cartID   int64
	key      domain.LineKey
	quantity int
	addedAt  time.Time
}

// txState is the part of the store a transaction may change.
type txState struct {
	carts       map[int64]domain.Cart
	cartByOwner map[string]int64
	items       map[int64]itemRow
	orders      map[int64]domain.Order
	nextCartID  int64
	nextItemID  int64
	nextOrderID int64
	nextLineID  int64
}

func (s txState) clone() txState {
	c := s
	c.carts = maps.Clone(s.carts)
	c.cartByOwner = maps.Clone(s.cartByOwner)
	c.items = maps.Clone(s.items)
	c.orders = maps.Clone(s.orders)
	return c
}

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	log  *logrus.Logger

	categories []domain.Category
	pizzas     map[int64]domain.Pizza
	combos     map[int64]domain.Combo
	promotions []domain.Promotion
	users      map[int64]domain.User
	feedback   []domain.Feedback
	nextID     int64

	tx txState
	// now is replaceable in tests.
	now func() time.Time
}

var (
	_ domain.CatalogRepository  = (*Store)(nil)
	_ domain.CartRepository     = (*Store)(nil)
	_ domain.OrderRepository    = (*Store)(nil)
	_ domain.UserRepository     = (*Store)(nil)
	_ domain.FeedbackRepository = (*Store)(nil)
	_ domain.TxManager          = (*Store)(nil)
)

func NewStore(logger *logrus.Logger) *Store {
	return &Store{
		log:    logger,
		pizzas: map[int64]domain.Pizza{},
		combos: map[int64]domain.Combo{},
		users:  map[int64]domain.User{},
		tx: txState{
			carts:       map[int64]domain.Cart{},
			cartByOwner: map[string]int64{},
			items:       map[int64]itemRow{},
			orders:      map[int64]domain.Order{},
		},
		now: time.Now,
	}
}

// WithinTx runs fn with exclusive access to carts and orders. Any error or
// panic from fn restores both tables to their state before the call.
// Writes through the Store itself outside fn run in their own transaction,
// so a rollback never undoes them.
func (s *Store) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.tx.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		} else if err != nil {
			s.log.Debugf("Repository: Rolling back in-memory transaction due to error: %v", err)
			s.restore(snapshot)
		}
	}()

	err = fn(txRepos{s}.repositories())
	return err
}

func (s *Store) restore(snapshot txState) {
	s.mu.Lock()
	s.tx = snapshot
	s.mu.Unlock()
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddCategory, AddPizza, AddCombo and AddPromotion load catalog data.

func (s *Store) AddCategory(c domain.Category) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories = append(s.categories, c)
	return c
}

func (s *Store) AddPizza(p domain.Pizza) domain.Pizza {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.pizzas[p.ID] = p
	return p
}

func (s *Store) AddCombo(c domain.Combo) domain.Combo {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.combos[c.ID] = c
	return c
}

func (s *Store) AddPromotion(p domain.Promotion) domain.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.promotions = append(s.promotions, p)
	return p
}

// RemovePizza drops a pizza from the catalog. Cart lines pointing at it
// stop being listed.
func (s *Store) RemovePizza(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pizzas, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := append([]domain.Category{}, s.categories...)
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *Store) GetPizzaByID(ctx context.Context, id int64) (*domain.Pizza, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pizzas[id]
	if !ok {
		return nil, fmt.Errorf("pizza with id %d %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) GetPizzaBySlug(ctx context.Context, slug string) (*domain.Pizza, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pizzas {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("pizza %q %w", slug, domain.ErrNotFound)
}

func matchesPizza(p domain.Pizza, f domain.PizzaFilter, categoryID int64) bool {
	if f.CategorySlug != "" && p.CategoryID != categoryID {
		return false
	}
	if f.Popular != nil && p.IsPopular != *f.Popular {
		return false
	}
	if f.New != nil && p.IsNew != *f.New {
		return false
	}
	if f.Spicy != nil && p.IsSpicy != *f.Spicy {
		return false
	}
	if f.Vegetarian != nil && p.IsVegetarian != *f.Vegetarian {
		return false
	}
	if f.PopularOrNew && !p.IsPopular && !p.IsNew {
		return false
	}
	if len(f.NameContains) > 0 {
		name := strings.ToLower(p.Name)
		found := false
		for _, keyword := range f.NameContains {
			if strings.Contains(name, strings.ToLower(keyword)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func pizzaLess(sortBy domain.PizzaSort) func(a, b domain.Pizza) bool {
	byOrder := func(a, b domain.Pizza) bool {
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	}
	switch sortBy {
	case domain.SortPopular:
		return func(a, b domain.Pizza) bool {
			if a.IsPopular != b.IsPopular {
				return a.IsPopular
			}
			return byOrder(a, b)
		}
	case domain.SortPriceAsc:
		return func(a, b domain.Pizza) bool {
			if !a.Price30.Equal(b.Price30) {
				return a.Price30.LessThan(b.Price30)
			}
			return a.Name < b.Name
		}
	case domain.SortPriceDesc:
		return func(a, b domain.Pizza) bool {
			if !a.Price30.Equal(b.Price30) {
				return a.Price30.GreaterThan(b.Price30)
			}
			return a.Name < b.Name
		}
	case domain.SortName:
		return func(a, b domain.Pizza) bool { return a.Name < b.Name }
	default:
		return byOrder
	}
}

func (s *Store) ListPizzas(ctx context.Context, filter domain.PizzaFilter) ([]domain.Pizza, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categoryID int64
	if filter.CategorySlug != "" {
		for _, c := range s.categories {
			if c.Slug == filter.CategorySlug {
				categoryID = c.ID
			}
		}
		if categoryID == 0 {
			return []domain.Pizza{}, nil
		}
	}

	pizzas := []domain.Pizza{}
	for _, p := range s.pizzas {
		if matchesPizza(p, filter, categoryID) {
			pizzas = append(pizzas, p)
		}
	}
	less := pizzaLess(filter.Sort)
	sort.Slice(pizzas, func(i, j int) bool {
		if less(pizzas[i], pizzas[j]) {
			return true
		}
		if less(pizzas[j], pizzas[i]) {
			return false
		}
		return pizzas[i].ID < pizzas[j].ID
	})
	if filter.Limit > 0 && len(pizzas) > filter.Limit {
		pizzas = pizzas[:filter.Limit]
	}
	return pizzas, nil
}

func (s *Store) GetComboByID(ctx context.Context, id int64) (*domain.Combo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.combos[id]
	if !ok {
		return nil, fmt.Errorf("combo with id %d %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) ListCombos(ctx context.Context, limit int) ([]domain.Combo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	combos := []domain.Combo{}
	for _, c := range s.combos {
		combos = append(combos, c)
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Order != combos[j].Order {
			return combos[i].Order < combos[j].Order
		}
		if combos[i].Name != combos[j].Name {
			return combos[i].Name < combos[j].Name
		}
		return combos[i].ID < combos[j].ID
	})
	if limit > 0 && len(combos) > limit {
		combos = combos[:limit]
	}
	return combos, nil
}

func (s *Store) ListActivePromotions(ctx context.Context, limit int) ([]domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	promotions := []domain.Promotion{}
	for _, p := range s.promotions {
		if p.IsActive {
			promotions = append(promotions, p)
		}
	}
	sort.SliceStable(promotions, func(i, j int) bool {
		return promotions[i].CreatedAt.After(promotions[j].CreatedAt)
	})
	if limit > 0 && len(promotions) > limit {
		promotions = promotions[:limit]
	}
	return promotions, nil
}
