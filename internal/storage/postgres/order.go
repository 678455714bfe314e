package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/order"
	"github.com/mercatus-io/storefront/internal/domain/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, cart_id, total, total_tax, total_with_tax)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getOrderByIDSQL = `SELECT id, user_id, cart_id, total, total_tax, total_with_tax, created
		FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, user_id, cart_id, total, total_tax, total_with_tax, created
		FROM orders ORDER BY created DESC LIMIT $1 OFFSET $2`

	listOrdersByUserSQL = `SELECT id, user_id, cart_id, total, total_tax, total_with_tax, created
		FROM orders WHERE user_id = $1 ORDER BY created DESC LIMIT $2 OFFSET $3`

	countOrdersSQL       = `SELECT count(*) FROM orders`
	countOrdersByUserSQL = `SELECT count(*) FROM orders WHERE user_id = $1`

	updateOrderTotalsSQL = `UPDATE orders SET total = $2, total_tax = $3, total_with_tax = $4 WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Only
// the aggregates are stored; reads re-hydrate line items from the cart.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.CartID, o.Total, o.TotalTax, o.TotalWithTax,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing user orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, countOrdersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, countOrdersByUserSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting user orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totals pricing.Totals) error {
	tag, err := r.pool.Exec(ctx, updateOrderTotalsSQL,
		id, totals.Total, totals.TotalTax, totals.TotalWithTax,
	)
	if err != nil {
		return fmt.Errorf("updating order %q totals: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.CartID, &o.Total, &o.TotalTax, &o.TotalWithTax, &o.Created)
	return o, err
}
