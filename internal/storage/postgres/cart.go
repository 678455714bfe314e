package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/cart"
)

const (
	createCartSQL = `INSERT INTO carts (id, user_id, items, version) VALUES ($1, $2, $3, $4)`

	getCartByIDSQL = `SELECT id, user_id, items, version, created FROM carts WHERE id = $1`

	// The line item id lives inside the JSONB array.
	findCartByItemIDSQL = `SELECT id, user_id, items, version, created FROM carts
		WHERE items @> jsonb_build_array(jsonb_build_object('id', $1::text))`

	addCartItemSQL = `UPDATE carts SET items = items || $2, version = version + 1 WHERE id = $1`

	// updateCartSQL is an optimistic compare-and-swap on the version column.
	updateCartSQL = `UPDATE carts SET items = $2, version = version + 1 WHERE id = $1 AND version = $3`

	deleteCartSQL = `DELETE FROM carts WHERE id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Line
// items are serialized into a JSONB column; concurrent writers are fenced
// by the version column.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("marshaling cart items: %w", err)
	}
	_, err = r.pool.Exec(ctx, createCartSQL, c.ID, c.UserID, itemsJSON, c.Version)
	if err != nil {
		return fmt.Errorf("creating cart %q: %w", c.ID, err)
	}
	return nil
}

func (r *CartRepository) GetByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}
	return &c, nil
}

func (r *CartRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, findCartByItemIDSQL, itemID.String())
	if err != nil {
		return nil, fmt.Errorf("finding cart by item %q: %w", itemID, err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, fmt.Errorf("finding cart by item %q: %w", itemID, err)
	}
	return &c, nil
}

func (r *CartRepository) AddItem(ctx context.Context, cartID uuid.UUID, item cart.Item) error {
	itemJSON, err := json.Marshal([]cart.Item{item})
	if err != nil {
		return fmt.Errorf("marshaling cart item: %w", err)
	}
	tag, err := r.pool.Exec(ctx, addCartItemSQL, cartID, itemJSON)
	if err != nil {
		return fmt.Errorf("adding item to cart %q: %w", cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return err
	}

	removed := false
	items := make([]cart.Item, 0, len(c.Items))
	for _, item := range c.Items {
		if !removed && item.ID == itemID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	if !removed {
		return cart.ErrItemNotFound
	}

	c.Items = items
	return r.Update(ctx, c)
}

// Update rewrites the item list if and only if the stored version still
// matches the one the caller read. A lost race surfaces as ErrConflict.
func (r *CartRepository) Update(ctx context.Context, c *cart.Cart) error {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("marshaling cart items: %w", err)
	}
	tag, err := r.pool.Exec(ctx, updateCartSQL, c.ID, itemsJSON, c.Version)
	if err != nil {
		return fmt.Errorf("updating cart %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, c.ID); getErr != nil {
			return getErr
		}
		return cart.ErrConflict
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteCartSQL, id)
	if err != nil {
		return fmt.Errorf("deleting cart %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func scanCart(row pgx.CollectableRow) (cart.Cart, error) {
	var (
		c         cart.Cart
		itemsJSON []byte
	)
	if err := row.Scan(&c.ID, &c.UserID, &itemsJSON, &c.Version, &c.Created); err != nil {
		return cart.Cart{}, err
	}
	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return cart.Cart{}, fmt.Errorf("unmarshaling cart items: %w", err)
	}
	return c, nil
}
