package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrSKUTaken is returned when creating a product with a SKU that is
// already in use.
var ErrSKUTaken = errors.New("sku already in use")

// ErrSlugTaken is returned when a product update would collide with an
// existing sku or slug.
var ErrSlugTaken = errors.New("sku or slug already in use")

// Product is a catalog item available for purchase. Price and Taxable are
// read by the pricing calculator at computation time; IsActive controls
// storefront visibility and is subject to cascading brand/category
// deactivation.
type Product struct {
	ID          uuid.UUID
	MerchantID  uuid.UUID
	BrandID     uuid.UUID
	SKU         string
	Name        string
	Slug        string
	Description string
	ImageURL    string
	ImageKey    string
	Quantity    int
	Price       decimal.Decimal
	Taxable     bool
	IsActive    bool
	Created     time.Time
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	ListByBrand(ctx context.Context, brandID uuid.UUID) ([]Product, error)
	Search(ctx context.Context, name string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetActive flips the isActive flag on every listed product,
	// regardless of each product's own toggle history.
	SetActive(ctx context.Context, active bool, ids ...uuid.UUID) error

	// AdjustQuantity changes the available stock by delta, which may be
	// negative. Used to restock cancelled order line items.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}
