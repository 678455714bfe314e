package address

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested address does not exist.
var ErrNotFound = errors.New("address not found")

// Address is a delivery address owned by a user.
type Address struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Address   string
	City      string
	State     string
	Country   string
	ZipCode   string
	IsDefault bool
}

// Repository defines persistence operations for addresses.
type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}
