package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// nextStatus is the forward path of an order. Terminal states have no entry.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusNew:        StatusConfirmed,
	StatusConfirmed:  StatusPreparing,
	StatusPreparing:  StatusDelivering,
	StatusDelivering: StatusCompleted,
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusNew, StatusConfirmed, StatusPreparing, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order in status from may move to status to:
// one step forward, or cancellation of a non-terminal order.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return nextStatus[from] == to
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCardOnline  PaymentMethod = "card_online"
	PaymentCardCourier PaymentMethod = "card_courier"
)

func IsValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentCash, PaymentCardOnline, PaymentCardCourier:
		return true
	default:
		return false
	}
}

type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	Kind       ItemKind        `json:"kind"`
	Name       string          `json:"name"`
	Size       Size            `json:"size,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Order struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	Comment       string          `json:"comment"`
	CartID        *int64          `json:"cart_id,omitempty"`
	OwnerKey      string          `json:"-"`
	UserID        *int64          `json:"user_id,omitempty"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaymentStatus bool            `json:"payment_status"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SnapshotItem copies a cart line into an order line.
func SnapshotItem(item CartItem) OrderItem {
	return OrderItem{
		Kind:       item.Product.Kind(),
		Name:       item.Product.Name(),
		Size:       item.Product.Size(),
		Quantity:   item.Quantity,
		UnitPrice:  item.Product.UnitPrice(),
		TotalPrice: item.LineTotal(),
	}
}

type CheckoutDetails struct {
	Name          string
	Phone         string
	Email         string
	Address       string
	Comment       string
	PaymentMethod PaymentMethod
}

type OrderRepository interface {
	// CreateOrder inserts the header and all items of order and fills in their ids.
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
	// UpdateOrderStatus moves the order from status from to status to,
	// failing with ErrConflict if the stored status is no longer from.
	UpdateOrderStatus(ctx context.Context, id int64, from, to OrderStatus) (*Order, error)
}

type CheckoutUseCase interface {
	Checkout(ctx context.Context, owner Owner, details CheckoutDetails) (*Order, error)
}

type OrderUseCase interface {
	GetOrder(ctx context.Context, owner Owner, id int64) (*Order, error)
	ListOrders(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
}
