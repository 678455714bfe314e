package category

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested category does not exist.
var ErrNotFound = errors.New("category not found")

// ErrSlugTaken is returned when a category create/update would collide
// with an existing slug.
var ErrSlugTaken = errors.New("slug already in use")

// Category is a curated collection of product references. Deactivating a
// category cascades to every product it lists.
type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	ProductIDs  []uuid.UUID
	IsActive    bool
	Created     time.Time
}

// Repository defines persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
