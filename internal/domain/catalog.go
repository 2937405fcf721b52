package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Size int

const (
	Size30 Size = 30
	Size35 Size = 35
	Size40 Size = 40
)

// Sizes lists the pizza diameters in menu order.
var Sizes = []Size{Size30, Size35, Size40}

func IsValidSize(size Size) bool {
	switch size {
	case Size30, Size35, Size40:
		return true
	default:
		return false
	}
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type Pizza struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Ingredients  string          `json:"ingredients"`
	Price30      decimal.Decimal `json:"price_30"`
	Price35      decimal.Decimal `json:"price_35"`
	Price40      decimal.Decimal `json:"price_40"`
	CategoryID   int64           `json:"category_id"`
	IsPopular    bool            `json:"is_popular"`
	IsNew        bool            `json:"is_new"`
	IsSpicy      bool            `json:"is_spicy"`
	IsVegetarian bool            `json:"is_vegetarian"`
	ImageURL     string          `json:"image_url"`
	Order        int             `json:"order"`
}

// PriceFor returns the price of the given diameter. Unknown sizes use the 30 cm price.
func (p Pizza) PriceFor(size Size) decimal.Decimal {
	switch size {
	case Size35:
		return p.Price35
	case Size40:
		return p.Price40
	default:
		return p.Price30
	}
}

type Combo struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Includes    string          `json:"includes"`
	Order       int             `json:"order"`
}

type Promotion struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type PizzaSort string

const (
	SortPopular   PizzaSort = "popular"
	SortPriceAsc  PizzaSort = "price-asc"
	SortPriceDesc PizzaSort = "price-desc"
	SortName      PizzaSort = "name"
)

// PizzaFilter narrows a pizza listing. Nil flags are ignored; NameContains
// matches when the name contains any of the keywords, case-insensitively.
type PizzaFilter struct {
	Popular      *bool
	New          *bool
	Spicy        *bool
	Vegetarian   *bool
	PopularOrNew bool
	NameContains []string
	CategorySlug string
	Sort         PizzaSort
	Limit        int
}

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetPizzaByID(ctx context.Context, id int64) (*Pizza, error)
	GetPizzaBySlug(ctx context.Context, slug string) (*Pizza, error)
	ListPizzas(ctx context.Context, filter PizzaFilter) ([]Pizza, error)
	GetComboByID(ctx context.Context, id int64) (*Combo, error)
	ListCombos(ctx context.Context, limit int) ([]Combo, error)
	ListActivePromotions(ctx context.Context, limit int) ([]Promotion, error)
}

type HomePage struct {
	PopularPizzas []Pizza     `json:"popular_pizzas"`
	NewPizzas     []Pizza     `json:"new_pizzas"`
	Combos        []Combo     `json:"combos"`
	Promotions    []Promotion `json:"promotions"`
}

type MenuQuery struct {
	Category string
	Sort     string
}

type MenuPage struct {
	Pizzas           []Pizza    `json:"pizzas"`
	Categories       []Category `json:"categories"`
	SelectedCategory string     `json:"selected_category"`
	SelectedSort     string     `json:"selected_sort"`
}

type CatalogUseCase interface {
	Home(ctx context.Context) (*HomePage, error)
	Menu(ctx context.Context, query MenuQuery) (*MenuPage, error)
	Categories(ctx context.Context) ([]Category, error)
	Pizza(ctx context.Context, id int64) (*Pizza, error)
	PizzaBySlug(ctx context.Context, slug string) (*Pizza, error)
	Combo(ctx context.Context, id int64) (*Combo, error)
	Combos(ctx context.Context) ([]Combo, error)
	Promotions(ctx context.Context) ([]Promotion, error)
}
