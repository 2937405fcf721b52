package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

const orderColumns = `id, name, phone, email, address, comment, cart_id, owner_key, user_id,
        total_price, status, payment_method, payment_status, created_at, updated_at`

type postgresOrderRepository struct {
	db  DBTX
	log *logrus.Logger
}

func NewPostgresOrderRepository(db DBTX, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPointer(id sql.NullInt64) *int64 {
	if !id.Valid {
		return nil
	}
	v := id.Int64
	return &v
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order          domain.Order
		cartID, userID sql.NullInt64
	)
	err := row.Scan(
		&order.ID, &order.Name, &order.Phone, &order.Email, &order.Address, &order.Comment,
		&cartID, &order.OwnerKey, &userID,
		&order.TotalPrice, &order.Status, &order.PaymentMethod, &order.PaymentStatus,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.CartID = idPointer(cartID)
	order.UserID = idPointer(userID)
	return &order, nil
}

// CreateOrder is not atomic on its own; callers run it through a TxManager.
func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	orderQuery := `
        INSERT INTO orders (name, phone, email, address, comment, cart_id, owner_key, user_id,
                            total_price, status, payment_method, payment_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, orderQuery,
		order.Name, order.Phone, order.Email, order.Address, order.Comment,
		nullableID(order.CartID), order.OwnerKey, nullableID(order.UserID),
		order.TotalPrice, string(order.Status), string(order.PaymentMethod), order.PaymentStatus,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Repository: Failed to insert order for %s: %v", order.OwnerKey, err)
		if pqCode(err) == pqCheckViolation {
			return nil, fmt.Errorf("invalid order data: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}
	r.log.Infof("Repository: Order entry created with ID: %d for %s", order.ID, order.OwnerKey)

	itemQuery := `
        INSERT INTO order_items (order_id, kind, name, size, quantity, unit_price, total_price)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = r.db.QueryRowContext(ctx, itemQuery,
			order.ID, string(item.Kind), item.Name, int(item.Size), item.Quantity, item.UnitPrice, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			r.log.Errorf("Repository: Failed to insert order item %q (quantity: %d) for order %d: %v", item.Name, item.Quantity, order.ID, err)
			if pqCode(err) == pqCheckViolation {
				return nil, fmt.Errorf("invalid item data (%s): %w", item.Name, domain.ErrInvalidInput)
			}
			return nil, fmt.Errorf("could not create order item (%s): %w", item.Name, err)
		}
	}

	r.log.Infof("Repository: Order %d created with %d items", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found", id)
			return nil, fmt.Errorf("order with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	if order.Items, err = r.getOrderItems(ctx, id); err != nil {
		return nil, err
	}
	r.log.Debugf("Repository: Order %d retrieved with %d items", order.ID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
        SELECT id, order_id, kind, name, size, quantity, unit_price, total_price
        FROM order_items
        WHERE order_id = $1
        ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query order items for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Kind, &item.Name, &item.Size,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row for order ID %d: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not list orders: %w", err)
	}

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	for i := range orders {
		if orders[i].Items, err = r.getOrderItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	r.log.Debugf("Repository: Retrieved %d orders for user %d", len(orders), userID)
	return orders, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING ` + orderColumns
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, string(to), id, string(from)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetOrderByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			r.log.Warnf("Repository: Order %d is no longer in status %s", id, from)
			return nil, fmt.Errorf("order %d is not %s: %w", id, from, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to update status of order %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	if order.Items, err = r.getOrderItems(ctx, id); err != nil {
		return nil, err
	}
	r.log.Infof("Repository: Order %d moved from %s to %s", id, from, to)
	return order, nil
}
