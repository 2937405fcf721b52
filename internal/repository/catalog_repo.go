package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

const pizzaColumns = `p.id, p.name, p.slug, p.description, p.ingredients, p.price_30, p.price_35, p.price_40,
        p.category_id, p.is_popular, p.is_new, p.is_spicy, p.is_vegetarian, p.image_url, p.sort_order`

const comboColumns = `c.id, c.name, c.description, c.price, c.image, c.includes, c.sort_order`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPizza(row rowScanner, p *domain.Pizza, extra ...any) error {
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Ingredients,
		&p.Price30, &p.Price35, &p.Price40,
		&p.CategoryID, &p.IsPopular, &p.IsNew, &p.IsSpicy, &p.IsVegetarian, &p.ImageURL, &p.Order,
	}
	return row.Scan(append(extra, dest...)...)
}

func scanCombo(row rowScanner, c *domain.Combo, extra ...any) error {
	dest := []any{&c.ID, &c.Name, &c.Description, &c.Price, &c.Image, &c.Includes, &c.Order}
	return row.Scan(append(extra, dest...)...)
}

type postgresCatalogRepository struct {
	db  DBTX
	log *logrus.Logger
}

func NewPostgresCatalogRepository(db DBTX, logger *logrus.Logger) domain.CatalogRepository {
	return &postgresCatalogRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
        SELECT id, name, slug, description, sort_order
        FROM categories
        ORDER BY sort_order, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order); err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d categories", len(categories))
	return categories, nil
}

func (r *postgresCatalogRepository) GetPizzaByID(ctx context.Context, id int64) (*domain.Pizza, error) {
	query := `SELECT ` + pizzaColumns + ` FROM pizzas p WHERE p.id = $1`
	pizza := &domain.Pizza{}
	if err := scanPizza(r.db.QueryRowContext(ctx, query, id), pizza); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Pizza with ID %d not found", id)
			return nil, fmt.Errorf("pizza with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get pizza by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get pizza by id: %w", err)
	}
	return pizza, nil
}

func (r *postgresCatalogRepository) GetPizzaBySlug(ctx context.Context, slug string) (*domain.Pizza, error) {
	query := `SELECT ` + pizzaColumns + ` FROM pizzas p WHERE p.slug = $1`
	pizza := &domain.Pizza{}
	if err := scanPizza(r.db.QueryRowContext(ctx, query, slug), pizza); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Pizza with slug %q not found", slug)
			return nil, fmt.Errorf("pizza %q %w", slug, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get pizza by slug %q: %v", slug, err)
		return nil, fmt.Errorf("could not get pizza by slug: %w", err)
	}
	return pizza, nil
}

func pizzaOrderBy(sort domain.PizzaSort) string {
	switch sort {
	case domain.SortPopular:
		return "p.is_popular DESC, p.sort_order, p.name"
	case domain.SortPriceAsc:
		return "p.price_30 ASC, p.name"
	case domain.SortPriceDesc:
		return "p.price_30 DESC, p.name"
	case domain.SortName:
		return "p.name"
	default:
		return "p.sort_order, p.name"
	}
}

func (r *postgresCatalogRepository) ListPizzas(ctx context.Context, filter domain.PizzaFilter) ([]domain.Pizza, error) {
	query := `SELECT ` + pizzaColumns + ` FROM pizzas p`
	args := []any{}
	where := []string{}
	bind := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.CategorySlug != "" {
		query += ` JOIN categories c ON c.id = p.category_id`
		bind("c.slug = $%d", filter.CategorySlug)
	}
	if filter.Popular != nil {
		bind("p.is_popular = $%d", *filter.Popular)
	}
	if filter.New != nil {
		bind("p.is_new = $%d", *filter.New)
	}
	if filter.Spicy != nil {
		bind("p.is_spicy = $%d", *filter.Spicy)
	}
	if filter.Vegetarian != nil {
		bind("p.is_vegetarian = $%d", *filter.Vegetarian)
	}
	if filter.PopularOrNew {
		where = append(where, "(p.is_popular OR p.is_new)")
	}
	if len(filter.NameContains) > 0 {
		likes := make([]string, 0, len(filter.NameContains))
		for _, keyword := range filter.NameContains {
			args = append(args, "%"+keyword+"%")
			likes = append(likes, fmt.Sprintf("p.name ILIKE $%d", len(args)))
		}
		where = append(where, "("+strings.Join(likes, " OR ")+")")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + pizzaOrderBy(filter.Sort)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	r.log.Debugf("Repository: Listing pizzas: %s with args: %v", query, args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list pizzas: %v", err)
		return nil, fmt.Errorf("could not list pizzas: %w", err)
	}
	defer rows.Close()

	pizzas := []domain.Pizza{}
	for rows.Next() {
		var p domain.Pizza
		if err := scanPizza(rows, &p); err != nil {
			r.log.Errorf("Repository: Failed to scan pizza row: %v", err)
			return nil, fmt.Errorf("error scanning pizza data: %w", err)
		}
		pizzas = append(pizzas, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pizzas: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d pizzas", len(pizzas))
	return pizzas, nil
}

func (r *postgresCatalogRepository) GetComboByID(ctx context.Context, id int64) (*domain.Combo, error) {
	query := `SELECT ` + comboColumns + ` FROM combos c WHERE c.id = $1`
	combo := &domain.Combo{}
	if err := scanCombo(r.db.QueryRowContext(ctx, query, id), combo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Combo with ID %d not found", id)
			return nil, fmt.Errorf("combo with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get combo by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get combo by id: %w", err)
	}
	return combo, nil
}

func (r *postgresCatalogRepository) ListCombos(ctx context.Context, limit int) ([]domain.Combo, error) {
	query := `SELECT ` + comboColumns + ` FROM combos c ORDER BY c.sort_order, c.name`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list combos: %v", err)
		return nil, fmt.Errorf("could not list combos: %w", err)
	}
	defer rows.Close()

	combos := []domain.Combo{}
	for rows.Next() {
		var c domain.Combo
		if err := scanCombo(rows, &c); err != nil {
			r.log.Errorf("Repository: Failed to scan combo row: %v", err)
			return nil, fmt.Errorf("error scanning combo data: %w", err)
		}
		combos = append(combos, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating combos: %w", err)
	}
	return combos, nil
}

func (r *postgresCatalogRepository) ListActivePromotions(ctx context.Context, limit int) ([]domain.Promotion, error) {
	query := `
        SELECT id, title, description, image, end_date, is_active, created_at
        FROM promotions
        WHERE is_active
        ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list promotions: %v", err)
		return nil, fmt.Errorf("could not list promotions: %w", err)
	}
	defer rows.Close()

	promotions := []domain.Promotion{}
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.EndDate, &p.IsActive, &p.CreatedAt); err != nil {
			r.log.Errorf("Repository: Failed to scan promotion row: %v", err)
			return nil, fmt.Errorf("error scanning promotion data: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}
	return promotions, nil
}
