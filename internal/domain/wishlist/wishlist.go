package wishlist

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested wishlist entry does not exist.
var ErrNotFound = errors.New("wishlist entry not found")

// Entry marks a product as liked by a user. Adding an already-present
// product updates the existing entry instead of duplicating it.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	IsLiked   bool
	Updated   time.Time
}

// Repository defines persistence operations for wishlists.
type Repository interface {
	// Upsert creates the entry or updates the existing user+product pair.
	Upsert(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}
