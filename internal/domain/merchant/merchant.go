package merchant

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested merchant does not exist.
var ErrNotFound = errors.New("merchant not found")

// Status tracks a merchant application through its approval flow.
type Status string

const (
	StatusWaiting  Status = "Waiting Approval"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Merchant is a seller account application with its approval status.
type Merchant struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
	BrandName   string
	Business    string
	IsActive    bool
	Status      Status
	Created     time.Time
}

// Repository defines persistence operations for merchants.
type Repository interface {
	Create(ctx context.Context, m *Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Merchant, error)
	List(ctx context.Context) ([]Merchant, error)
	Update(ctx context.Context, m *Merchant) error
	Delete(ctx context.Context, id uuid.UUID) error
}
