package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Owner identifies whose cart is being touched: an authenticated user or an
// anonymous session. Exactly one of the two fields is set.
type Owner struct {
	UserID     int64
	SessionKey string
}

func UserOwner(userID int64) Owner {
	return Owner{UserID: userID}
}

func SessionOwner(sessionKey string) Owner {
	return Owner{SessionKey: sessionKey}
}

func (o Owner) IsAuthenticated() bool {
	return o.UserID > 0
}

func (o Owner) Valid() bool {
	return o.UserID > 0 || o.SessionKey != ""
}

// Key is the persisted owner_key of the owner's cart.
func (o Owner) Key() string {
	if o.UserID > 0 {
		return "user:" + strconv.FormatInt(o.UserID, 10)
	}
	return "session:" + o.SessionKey
}

func (o Owner) String() string {
	return o.Key()
}

type ItemKind string

const (
	KindPizza ItemKind = "pizza"
	KindCombo ItemKind = "combo"
)

func IsValidKind(kind ItemKind) bool {
	return kind == KindPizza || kind == KindCombo
}

// Product is what a cart line holds. PizzaLine and ComboLine are the only
// implementations; Size is 0 for products without variants.
type Product interface {
	Kind() ItemKind
	Ref() int64
	Size() Size
	Name() string
	UnitPrice() decimal.Decimal
}

type PizzaLine struct {
	Pizza    Pizza
	Diameter Size
}

func (l PizzaLine) Kind() ItemKind             { return KindPizza }
func (l PizzaLine) Ref() int64                 { return l.Pizza.ID }
func (l PizzaLine) Size() Size                 { return l.Diameter }
func (l PizzaLine) Name() string               { return l.Pizza.Name }
func (l PizzaLine) UnitPrice() decimal.Decimal { return l.Pizza.PriceFor(l.Diameter) }

type ComboLine struct {
	Combo Combo
}

func (l ComboLine) Kind() ItemKind             { return KindCombo }
func (l ComboLine) Ref() int64                 { return l.Combo.ID }
func (l ComboLine) Size() Size                 { return 0 }
func (l ComboLine) Name() string               { return l.Combo.Name }
func (l ComboLine) UnitPrice() decimal.Decimal { return l.Combo.Price }

type CartItem struct {
	ID       int64
	CartID   int64
	Product  Product
	Quantity int
	AddedAt  time.Time
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	ID        int64
	OwnerKey  string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Item(id int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

// LineKey is the uniqueness key of a cart line inside its cart.
type LineKey struct {
	Kind ItemKind
	Ref  int64
	Size Size
}

func KeyOf(p Product) LineKey {
	return LineKey{Kind: p.Kind(), Ref: p.Ref(), Size: p.Size()}
}

func (k LineKey) String() string {
	if k.Size == 0 {
		return fmt.Sprintf("%s:%d", k.Kind, k.Ref)
	}
	return fmt.Sprintf("%s:%d:%d", k.Kind, k.Ref, k.Size)
}

type CartRepository interface {
	// GetOrCreateCart returns the owner's cart with its items, creating an empty one if needed.
	GetOrCreateCart(ctx context.Context, ownerKey string) (*Cart, error)
	GetCartByID(ctx context.Context, cartID int64) (*Cart, error)
	// LockCart serializes mutations of one cart until the surrounding transaction ends.
	LockCart(ctx context.Context, cartID int64) error
	GetItem(ctx context.Context, itemID int64) (*CartItem, error)
	// AddItem inserts the line or increments the quantity of the existing line with the same key.
	AddItem(ctx context.Context, cartID int64, key LineKey, quantity int) (int64, error)
	SetItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, cartID int64) (int64, error)
}

type AddItemInput struct {
	Kind     ItemKind
	ItemID   int64
	Size     Size
	Quantity int
}

type CartTotals struct {
	TotalPrice    decimal.Decimal
	TotalQuantity int
	// ItemTotal is the line total of the touched line, zero if it was removed.
	ItemTotal decimal.Decimal
}

type CartResult struct {
	Success bool
	Message string
	Totals  CartTotals
	Cart    *Cart
}

type CartUseCase interface {
	GetCart(ctx context.Context, owner Owner) (*Cart, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*CartResult, error)
	UpdateItem(ctx context.Context, owner Owner, itemID int64, quantity int) (*CartResult, error)
	RemoveItem(ctx context.Context, owner Owner, itemID int64) (*CartResult, error)
	Clear(ctx context.Context, owner Owner) (*CartResult, error)
}
