package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/pricing"
	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/user"
)

// StatusUpdate describes the outcome of a line-item status change.
type StatusUpdate struct {
	// OrderCancelled is set when the change cancelled the last remaining
	// item, which deleted the order and its cart.
	OrderCancelled bool
	// ItemCancelled is set when the item was cancelled but siblings keep
	// the order alive.
	ItemCancelled bool
}

// Service implements the order lifecycle: checkout, reads with
// authoritative recomputed totals, per-item status transitions, and
// order-level cancellation.
type Service struct {
	orders   Repository
	carts    cart.Repository
	products product.Repository
	calc     *pricing.Calculator
}

// NewService creates an order Service with the required dependencies.
func NewService(orders Repository, carts cart.Repository, products product.Repository, calc *pricing.Calculator) *Service {
	return &Service{
		orders:   orders,
		carts:    carts,
		products: products,
		calc:     calc,
	}
}

// Place converts a cart into an order owned by the requester. The
// client-supplied total is accepted for compatibility but the stored
// aggregates are always the pricing engine's recomputation over the cart.
func (s *Service) Place(ctx context.Context, requester user.Identity, cartID uuid.UUID, _ decimal.Decimal) (*Order, error) {
	if cartID == uuid.Nil {
		return nil, ErrCartRequired
	}

	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "resolve cart")
	}

	o := &Order{
		ID:     uuid.New(),
		UserID: requester.ID,
		CartID: cartID,
		Items:  c.Items,
	}
	o.applyTotals(s.calc.OrderTotals(c.Items))

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Get returns the order enriched with its cart snapshot and recomputed
// totals. A missing order and an order owned by someone else surface the
// same NotFoundError so callers cannot probe for existence.
func (s *Service) Get(ctx context.Context, requester user.Identity, orderID uuid.UUID) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{ID: orderID}
		}
		return nil, errors.Wrap(err, "get order")
	}
	if o.UserID != requester.ID && !requester.IsAdmin() {
		return nil, &NotFoundError{ID: orderID}
	}

	s.enrich(ctx, o)
	return o, nil
}

// Search looks up orders matching the query. A query that is not a
// syntactically valid id yields an empty result, not an error. Admins see
// any match; everyone else only matches they own.
func (s *Service) Search(ctx context.Context, requester user.Identity, query string) ([]Order, error) {
	id, err := uuid.Parse(query)
	if err != nil {
		return []Order{}, nil
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Order{}, nil
		}
		return nil, errors.Wrap(err, "search orders")
	}
	if o.UserID != requester.ID && !requester.IsAdmin() {
		return []Order{}, nil
	}

	s.enrich(ctx, o)
	return []Order{*o}, nil
}

// List returns one page of orders. Admins see every order; members see
// only their own, from the same route.
func (s *Service) List(ctx context.Context, requester user.Identity, page, limit int) (*Page, error) {
	if !requester.IsAdmin() {
		return s.ListMine(ctx, requester, page, limit)
	}

	page, limit = normalizePage(page, limit)
	count, err := s.orders.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	orders, err := s.orders.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return s.buildPage(ctx, orders, count, page, limit), nil
}

// ListMine returns one page of the requester's own orders.
func (s *Service) ListMine(ctx context.Context, requester user.Identity, page, limit int) (*Page, error) {
	page, limit = normalizePage(page, limit)
	count, err := s.orders.CountByUser(ctx, requester.ID)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	orders, err := s.orders.ListByUser(ctx, requester.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return s.buildPage(ctx, orders, count, page, limit), nil
}

// Cancel deletes the order and its backing cart, restocking every line
// item that was not already cancelled.
func (s *Service) Cancel(ctx context.Context, requester user.Identity, orderID uuid.UUID) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "resolve order")
	}
	if o.UserID != requester.ID && !requester.IsAdmin() {
		return &NotFoundError{ID: orderID}
	}

	c, err := s.carts.GetByID(ctx, o.CartID)
	if err == nil {
		for _, item := range c.Items {
			if item.Status == cart.StatusCancelled {
				continue
			}
			if err := s.products.AdjustQuantity(ctx, item.ProductID, item.Quantity); err != nil {
				return errors.Wrap(err, "restock product")
			}
		}
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return errors.Wrap(err, "delete order")
	}
	if err := s.carts.Delete(ctx, o.CartID); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return nil
}

// UpdateItemStatus transitions a single line item. An omitted status
// defaults to Cancelled. Cancelling the last live item cascades to whole
// order cancellation: the order and cart are deleted. In every branch
// that keeps the order alive, the stored totals are recomputed and
// persisted before returning.
func (s *Service) UpdateItemStatus(ctx context.Context, itemID, orderID, cartID uuid.UUID, status cart.ItemStatus) (*StatusUpdate, error) {
	if status == "" {
		status = cart.StatusCancelled
	}

	foundCart, err := s.carts.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "locate cart item")
	}
	item := foundCart.FindItem(itemID)
	if item == nil {
		return nil, cart.ErrItemNotFound
	}

	item.Status = status
	if err := s.carts.Update(ctx, foundCart); err != nil {
		return nil, errors.Wrap(err, "update cart item")
	}

	if status != cart.StatusCancelled {
		if err := s.persistTotals(ctx, orderID, cartID); err != nil {
			return nil, err
		}
		return &StatusUpdate{}, nil
	}

	// Cancelled items go back on the shelf.
	if err := s.products.AdjustQuantity(ctx, item.ProductID, item.Quantity); err != nil {
		return nil, errors.Wrap(err, "restock product")
	}

	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "resolve cart")
	}

	if c.AllCancelled() {
		if err := s.orders.Delete(ctx, orderID); err != nil {
			return nil, errors.Wrap(err, "delete order")
		}
		if err := s.carts.Delete(ctx, cartID); err != nil {
			return nil, errors.Wrap(err, "delete cart")
		}
		return &StatusUpdate{OrderCancelled: true}, nil
	}

	if err := s.persistTotals(ctx, orderID, cartID); err != nil {
		return nil, err
	}
	return &StatusUpdate{ItemCancelled: true}, nil
}

// persistTotals recomputes the order aggregates from the cart's current
// non-cancelled items and writes them through, keeping stored totals in
// lockstep with the pricing engine.
func (s *Service) persistTotals(ctx context.Context, orderID, cartID uuid.UUID) error {
	c, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return errors.Wrap(err, "resolve cart")
	}
	if err := s.orders.UpdateTotals(ctx, orderID, s.calc.OrderTotals(c.Items)); err != nil {
		return errors.Wrap(err, "persist totals")
	}
	return nil
}

// enrich hydrates the order with its cart snapshot and recomputed totals.
// An order whose cart is no longer reachable is returned unchanged rather
// than failing the read.
func (s *Service) enrich(ctx context.Context, o *Order) {
	c, err := s.carts.GetByID(ctx, o.CartID)
	if err != nil {
		return
	}
	o.Items = c.Items
	o.applyTotals(s.calc.OrderTotals(c.Items))
}

// buildPage assembles a page of enriched orders.
func (s *Service) buildPage(ctx context.Context, orders []Order, count, page, limit int) *Page {
	for i := range orders {
		s.enrich(ctx, &orders[i])
	}
	return &Page{
		Orders:      orders,
		Count:       count,
		TotalPages:  (count + limit - 1) / limit,
		CurrentPage: page,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
