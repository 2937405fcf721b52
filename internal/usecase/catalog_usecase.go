package usecase

import (
	"context"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	homePopularLimit   = 8
	homeNewLimit       = 4
	homeCombosLimit    = 4
	homePromotionLimit = 3
)

// Menu categories that are facets rather than stored categories.
const (
	MenuAll        = "all"
	MenuMeat       = "meat"
	MenuVegetarian = "vegetarian"
	MenuSpicy      = "spicy"
	MenuCheese     = "cheese"
	MenuSpecial    = "special"
)

var cheeseKeywords = []string{"сыр", "cheese"}

var _ domain.CatalogUseCase = (*catalogUseCase)(nil)

type catalogUseCase struct {
	catalogRepo domain.CatalogRepository
	log         *logrus.Logger
}

func NewCatalogUseCase(repo domain.CatalogRepository, logger *logrus.Logger) domain.CatalogUseCase {
	return &catalogUseCase{
		catalogRepo: repo,
		log:         logger,
	}
}

func flag(b bool) *bool { return &b }

func (uc *catalogUseCase) Home(ctx context.Context) (*domain.HomePage, error) {
	popular, err := uc.catalogRepo.ListPizzas(ctx, domain.PizzaFilter{Popular: flag(true), Limit: homePopularLimit})
	if err != nil {
		return nil, err
	}
	fresh, err := uc.catalogRepo.ListPizzas(ctx, domain.PizzaFilter{New: flag(true), Limit: homeNewLimit})
	if err != nil {
		return nil, err
	}
	combos, err := uc.catalogRepo.ListCombos(ctx, homeCombosLimit)
	if err != nil {
		return nil, err
	}
	promotions, err := uc.catalogRepo.ListActivePromotions(ctx, homePromotionLimit)
	if err != nil {
		return nil, err
	}

	return &domain.HomePage{
		PopularPizzas: popular,
		NewPizzas:     fresh,
		Combos:        combos,
		Promotions:    promotions,
	}, nil
}

func menuFilter(query domain.MenuQuery) domain.PizzaFilter {
	filter := domain.PizzaFilter{Sort: domain.PizzaSort(query.Sort)}
	switch filter.Sort {
	case domain.SortPopular, domain.SortPriceAsc, domain.SortPriceDesc, domain.SortName:
	default:
		filter.Sort = domain.SortPopular
	}

	switch query.Category {
	case "", MenuAll:
	case MenuMeat:
		filter.Vegetarian = flag(false)
	case MenuVegetarian:
		filter.Vegetarian = flag(true)
	case MenuSpicy:
		filter.Spicy = flag(true)
	case MenuCheese:
		filter.NameContains = cheeseKeywords
	case MenuSpecial:
		filter.PopularOrNew = true
	default:
		filter.CategorySlug = query.Category
	}
	return filter
}

func (uc *catalogUseCase) Menu(ctx context.Context, query domain.MenuQuery) (*domain.MenuPage, error) {
	filter := menuFilter(query)
	uc.log.Debugf("Use Case: Menu requested with category=%q sort=%q", query.Category, filter.Sort)

	pizzas, err := uc.catalogRepo.ListPizzas(ctx, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list menu: %v", err)
		return nil, err
	}
	categories, err := uc.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	selected := query.Category
	if selected == "" {
		selected = MenuAll
	}
	return &domain.MenuPage{
		Pizzas:           pizzas,
		Categories:       categories,
		SelectedCategory: selected,
		SelectedSort:     string(filter.Sort),
	}, nil
}

func (uc *catalogUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.catalogRepo.ListCategories(ctx)
}

func (uc *catalogUseCase) Pizza(ctx context.Context, id int64) (*domain.Pizza, error) {
	if id <= 0 {
		return nil, invalid("invalid pizza ID")
	}
	return uc.catalogRepo.GetPizzaByID(ctx, id)
}

func (uc *catalogUseCase) PizzaBySlug(ctx context.Context, slug string) (*domain.Pizza, error) {
	if slug == "" {
		return nil, invalid("pizza slug is required")
	}
	return uc.catalogRepo.GetPizzaBySlug(ctx, slug)
}

func (uc *catalogUseCase) Combo(ctx context.Context, id int64) (*domain.Combo, error) {
	if id <= 0 {
		return nil, invalid("invalid combo ID")
	}
	return uc.catalogRepo.GetComboByID(ctx, id)
}

func (uc *catalogUseCase) Combos(ctx context.Context) ([]domain.Combo, error) {
	return uc.catalogRepo.ListCombos(ctx, 0)
}

func (uc *catalogUseCase) Promotions(ctx context.Context) ([]domain.Promotion, error) {
	return uc.catalogRepo.ListActivePromotions(ctx, 0)
}
