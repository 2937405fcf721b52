package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	db  DBTX
	log *logrus.Logger
}

func NewPostgresCartRepository(db DBTX, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

var _ domain.CartRepository = (*postgresCartRepository)(nil)

func (r *postgresCartRepository) GetOrCreateCart(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	query := `
        INSERT INTO carts (owner_key) VALUES ($1)
        ON CONFLICT (owner_key) DO UPDATE SET owner_key = EXCLUDED.owner_key
        RETURNING id, owner_key, created_at, updated_at`
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, ownerKey).Scan(&cart.ID, &cart.OwnerKey, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		r.log.Errorf("Repository: Failed to get or create cart for %s: %v", ownerKey, err)
		return nil, fmt.Errorf("could not get or create cart: %w", err)
	}

	if cart.Items, err = r.listItems(ctx, "ci.cart_id", cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresCartRepository) GetCartByID(ctx context.Context, cartID int64) (*domain.Cart, error) {
	query := `SELECT id, owner_key, created_at, updated_at FROM carts WHERE id = $1`
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, cartID).Scan(&cart.ID, &cart.OwnerKey, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get cart %d: %v", cartID, err)
		return nil, fmt.Errorf("could not get cart: %w", err)
	}

	if cart.Items, err = r.listItems(ctx, "ci.cart_id", cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresCartRepository) LockCart(ctx context.Context, cartID int64) error {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to lock cart %d: %v", cartID, err)
		return fmt.Errorf("could not lock cart: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) GetItem(ctx context.Context, itemID int64) (*domain.CartItem, error) {
	items, err := r.listItems(ctx, "ci.id", itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
	}
	return &items[0], nil
}

// listItems loads the lines matching column = value, joined with the product
// they point to. Lines whose product no longer exists are skipped.
func (r *postgresCartRepository) listItems(ctx context.Context, column string, value int64) ([]domain.CartItem, error) {
	items := []domain.CartItem{}

	pizzaQuery := `
        SELECT ci.id, ci.cart_id, ci.size, ci.quantity, ci.added_at, ` + pizzaColumns + `
        FROM cart_items ci
        JOIN pizzas p ON p.id = ci.item_id
        WHERE ci.kind = 'pizza' AND ` + column + ` = $1`
	rows, err := r.db.QueryContext(ctx, pizzaQuery, value)
	if err != nil {
		r.log.Errorf("Repository: Failed to query pizza lines: %v", err)
		return nil, fmt.Errorf("could not list cart items: %w", err)
	}
	for rows.Next() {
		var (
			item domain.CartItem
			line domain.PizzaLine
		)
		if err := scanPizza(rows, &line.Pizza, &item.ID, &item.CartID, &line.Diameter, &item.Quantity, &item.AddedAt); err != nil {
			rows.Close()
			r.log.Errorf("Repository: Failed to scan pizza line: %v", err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		item.Product = line
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	rows.Close()

	comboQuery := `
        SELECT ci.id, ci.cart_id, ci.quantity, ci.added_at, ` + comboColumns + `
        FROM cart_items ci
        JOIN combos c ON c.id = ci.item_id
        WHERE ci.kind = 'combo' AND ` + column + ` = $1`
	rows, err = r.db.QueryContext(ctx, comboQuery, value)
	if err != nil {
		r.log.Errorf("Repository: Failed to query combo lines: %v", err)
		return nil, fmt.Errorf("could not list cart items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			item domain.CartItem
			line domain.ComboLine
		)
		if err := scanCombo(rows, &line.Combo, &item.ID, &item.CartID, &item.Quantity, &item.AddedAt); err != nil {
			r.log.Errorf("Repository: Failed to scan combo line: %v", err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		item.Product = line
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *postgresCartRepository) touch(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, time.Now(), cartID); err != nil {
		r.log.Errorf("Repository: Failed to touch cart %d: %v", cartID, err)
		return fmt.Errorf("could not update cart: %w", err)
	}
	return nil
}

func (r *postgresCartRepository) AddItem(ctx context.Context, cartID int64, key domain.LineKey, quantity int) (int64, error) {
	query := `
        INSERT INTO cart_items (cart_id, kind, item_id, size, quantity)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (cart_id, kind, item_id, size)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
        RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, cartID, string(key.Kind), key.Ref, int(key.Size), quantity).Scan(&id)
	if err != nil {
		switch pqCode(err) {
		case pqForeignKeyViolation:
			return 0, fmt.Errorf("cart with id %d %w", cartID, domain.ErrNotFound)
		case pqCheckViolation:
			return 0, fmt.Errorf("line %s: %w", key, domain.ErrInvalidInput)
		}
		r.log.Errorf("Repository: Failed to add %s to cart %d: %v", key, cartID, err)
		return 0, fmt.Errorf("could not add cart item: %w", err)
	}
	r.log.Debugf("Repository: Line %s in cart %d is item %d", key, cartID, id)
	return id, r.touch(ctx, cartID)
}

func (r *postgresCartRepository) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	var cartID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 RETURNING cart_id`, quantity, itemID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
		}
		if pqCode(err) == pqCheckViolation {
			return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidInput)
		}
		r.log.Errorf("Repository: Failed to set quantity of item %d: %v", itemID, err)
		return fmt.Errorf("could not update cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *postgresCartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	var cartID int64
	err := r.db.QueryRowContext(ctx, `DELETE FROM cart_items WHERE id = $1 RETURNING cart_id`, itemID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cart item with id %d %w", itemID, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to delete item %d: %v", itemID, err)
		return fmt.Errorf("could not delete cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *postgresCartRepository) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.log.Errorf("Repository: Failed to clear cart %d: %v", cartID, err)
		return 0, fmt.Errorf("could not clear cart: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not check affected rows: %w", err)
	}
	r.log.Debugf("Repository: Removed %d lines from cart %d", removed, cartID)
	return removed, r.touch(ctx, cartID)
}
