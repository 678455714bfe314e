package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested review does not exist.
var ErrNotFound = errors.New("review not found")

// Status tracks a review through moderation.
type Status string

const (
	StatusWaiting  Status = "Waiting Approval"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Review is a customer rating of a product, held until moderation.
type Review struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	UserID        uuid.UUID
	Title         string
	Rating        int
	Review        string
	IsRecommended bool
	Status        Status
	Created       time.Time
}

// Repository defines persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) ([]Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
