package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/pricing"
)

// ErrNotFound is the repository-level sentinel for a missing order row.
var ErrNotFound = errors.New("order not found")

// ErrCartRequired indicates order placement without a resolvable cart.
var ErrCartRequired = errors.New("cart id is required")

// NotFoundError reports that an order is not visible to the caller. It
// covers both a genuinely absent record and an existing record owned by
// someone else: collapsing the two keeps order existence from leaking to
// unauthorized callers.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %s not visible", e.ID)
}

// Order wraps a cart snapshot with order-level metadata and monetary
// aggregates. There is no stored status: an order is active while the
// record exists, and full cancellation deletes both the order and its
// backing cart.
//
// The stored totals are always the pricing engine's recomputation over
// the current non-cancelled line items; reads re-derive them rather than
// trusting what the row carries.
type Order struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CartID       uuid.UUID
	Total        decimal.Decimal
	TotalTax     decimal.Decimal
	TotalWithTax decimal.Decimal
	Created      time.Time

	// Items is the hydrated cart snapshot, populated on reads.
	Items []cart.Item
}

func (o *Order) applyTotals(t pricing.Totals) {
	o.Total = t.Total
	o.TotalTax = t.TotalTax
	o.TotalWithTax = t.TotalWithTax
}

// Page is one page of an order listing.
type Page struct {
	Orders      []Order
	Count       int
	TotalPages  int
	CurrentPage int
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Order, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, totals pricing.Totals) error
	Delete(ctx context.Context, id uuid.UUID) error
}
