package brand

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested brand does not exist.
var ErrNotFound = errors.New("brand not found")

// Brand groups products under a common label. Deactivating a brand
// cascades to every product that references it.
type Brand struct {
	ID          uuid.UUID
	MerchantID  uuid.UUID
	Name        string
	Slug        string
	Description string
	IsActive    bool
	Created     time.Time
}

// Repository defines persistence operations for brands.
type Repository interface {
	Create(ctx context.Context, b *Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	List(ctx context.Context, activeOnly bool) ([]Brand, error)
	Update(ctx context.Context, b *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}
