package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")

	// ErrConflict indicates a concurrent writer updated the cart between
	// our read and write. The optimistic version check rejected the write.
	ErrConflict = errors.New("cart version conflict")
)

// ItemStatus is the fulfilment state of a single line item. Cancelled is
// terminal for aggregation purposes: cancelled items never contribute to
// order totals, though they remain in the record for audit.
type ItemStatus string

const (
	StatusProcessing ItemStatus = "Processing"
	StatusShipped    ItemStatus = "Shipped"
	StatusDelivered  ItemStatus = "Delivered"
	StatusCancelled  ItemStatus = "Cancelled"
)

// Item is one product+quantity+status entry inside a cart. The product
// attributes (sku, price, taxable) are snapshotted at add time; the
// monetary fields are derived by the pricing calculator and never
// hand-edited.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Taxable   bool            `json:"taxable"`
	Quantity  int             `json:"quantity"`
	Status    ItemStatus      `json:"status"`

	// Derived monetary fields, recomputed by pricing.Calculator.
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PriceWithTax  decimal.Decimal `json:"priceWithTax"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Cart is an ordered collection of line items owned by a user. Items keep
// insertion order; duplicate SKUs are permitted as separate lines.
type Cart struct {
	ID      uuid.UUID
	UserID  uuid.UUID // uuid.Nil before checkout binds an owner
	Items   []Item
	Version int64
	Created time.Time
}

// AllCancelled reports whether every line item in the cart has reached the
// Cancelled status. An empty cart is not considered cancelled.
func (c *Cart) AllCancelled() bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, item := range c.Items {
		if item.Status != StatusCancelled {
			return false
		}
	}
	return true
}

// FindItem returns a pointer to the line item with the given id, or nil.
func (c *Cart) FindItem(itemID uuid.UUID) *Item {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// Repository defines persistence operations for carts. Update performs an
// optimistic compare-and-swap on Cart.Version and returns ErrConflict when
// a concurrent writer got there first.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, item Item) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	Update(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}
