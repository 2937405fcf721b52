package delivery

import (
	"time"

	"pizzahunt/internal/domain"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type cartItemView struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Size      int    `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	ItemTotal string `json:"item_total"`
}

type cartView struct {
	ID           int64          `json:"id"`
	Items        []cartItemView `json:"items"`
	CartTotal    string         `json:"cart_total"`
	CartQuantity int            `json:"cart_quantity"`
}

func newCartView(cart *domain.Cart) cartView {
	view := cartView{
		ID:           cart.ID,
		Items:        make([]cartItemView, 0, len(cart.Items)),
		CartTotal:    money(cart.TotalPrice()),
		CartQuantity: cart.TotalQuantity(),
	}
	for _, item := range cart.Items {
		view.Items = append(view.Items, cartItemView{
			ID:        item.ID,
			Kind:      string(item.Product.Kind()),
			ItemID:    item.Product.Ref(),
			Name:      item.Product.Name(),
			Size:      int(item.Product.Size()),
			Quantity:  item.Quantity,
			UnitPrice: money(item.Product.UnitPrice()),
			ItemTotal: money(item.LineTotal()),
		})
	}
	return view
}

// cartMutationView is the payload of every cart mutation, successful or not.
type cartMutationView struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	CartTotal    string    `json:"cart_total"`
	CartQuantity int       `json:"cart_quantity"`
	ItemTotal    string    `json:"item_total"`
	Cart         *cartView `json:"cart,omitempty"`
}

func newCartMutationView(result *domain.CartResult) cartMutationView {
	view := cartMutationView{
		Success:      result.Success,
		Message:      result.Message,
		CartTotal:    money(result.Totals.TotalPrice),
		CartQuantity: result.Totals.TotalQuantity,
		ItemTotal:    money(result.Totals.ItemTotal),
	}
	if result.Cart != nil {
		cart := newCartView(result.Cart)
		view.Cart = &cart
	}
	return view
}

func failedCartMutationView(message string, cart *domain.Cart) cartMutationView {
	view := cartMutationView{
		Message:   message,
		CartTotal: money(decimal.Zero),
		ItemTotal: money(decimal.Zero),
	}
	if cart != nil {
		current := newCartView(cart)
		view.CartTotal = current.CartTotal
		view.CartQuantity = current.CartQuantity
		view.Cart = &current
	}
	return view
}

type orderItemView struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Size       int    `json:"size,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type orderView struct {
	ID            int64           `json:"id"`
	Status        string          `json:"status"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address"`
	Comment       string          `json:"comment,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus bool            `json:"payment_status"`
	TotalPrice    string          `json:"total_price"`
	Items         []orderItemView `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newOrderView(order *domain.Order) orderView {
	view := orderView{
		ID:            order.ID,
		Status:        string(order.Status),
		Name:          order.Name,
		Phone:         order.Phone,
		Email:         order.Email,
		Address:       order.Address,
		Comment:       order.Comment,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: order.PaymentStatus,
		TotalPrice:    money(order.TotalPrice),
		Items:         make([]orderItemView, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderItemView{
			ID:         item.ID,
			Kind:       string(item.Kind),
			Name:       item.Name,
			Size:       int(item.Size),
			Quantity:   item.Quantity,
			UnitPrice:  money(item.UnitPrice),
			TotalPrice: money(item.TotalPrice),
		})
	}
	return view
}

func newOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}
