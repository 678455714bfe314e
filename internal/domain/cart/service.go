package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Validation errors for cart mutations.
var (
	ErrNoItems = errors.New("cart must contain at least one item")
	ErrNoOwner = errors.New("cart owner is required")
)

// Service encapsulates cart aggregate mutations. Pricing enrichment is the
// caller's concern: items arrive here already carrying their derived
// monetary fields.
type Service struct {
	carts Repository
}

// NewService creates a cart Service backed by the given repository.
func NewService(carts Repository) *Service {
	return &Service{carts: carts}
}

// AddCart persists a new cart for owner with the given line items and
// returns its id. Every item gets a fresh line id and the initial
// Processing status.
func (s *Service) AddCart(ctx context.Context, owner uuid.UUID, items []Item) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, ErrNoItems
	}
	if owner == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}

	c := &Cart{
		ID:     uuid.New(),
		UserID: owner,
		Items:  make([]Item, len(items)),
	}
	for i, item := range items {
		item.ID = uuid.New()
		if item.Status == "" {
			item.Status = StatusProcessing
		}
		c.Items[i] = item
	}

	if err := s.carts.Create(ctx, c); err != nil {
		return uuid.Nil, errors.Wrap(err, "create cart")
	}
	return c.ID, nil
}

// AddItem appends a line item to an existing cart. Append, not
// merge-by-sku: a duplicate SKU becomes a separate line.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, item Item) error {
	if _, err := s.carts.GetByID(ctx, cartID); err != nil {
		return errors.Wrap(err, "resolve cart")
	}

	item.ID = uuid.New()
	if item.Status == "" {
		item.Status = StatusProcessing
	}
	if err := s.carts.AddItem(ctx, cartID, item); err != nil {
		return errors.Wrap(err, "add item")
	}
	return nil
}

// RemoveItem removes exactly one line item from the cart. Sibling lines,
// including ones sharing the same SKU, are untouched.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return errors.Wrap(err, "resolve cart")
	}
	if c.FindItem(itemID) == nil {
		return ErrItemNotFound
	}

	if err := s.carts.RemoveItem(ctx, cartID, itemID); err != nil {
		return errors.Wrap(err, "remove item")
	}
	return nil
}

// DeleteCart removes the cart and all its line items.
func (s *Service) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.carts.GetByID(ctx, cartID); err != nil {
		return errors.Wrap(err, "resolve cart")
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return nil
}
