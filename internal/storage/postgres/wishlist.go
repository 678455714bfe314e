package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/wishlist"
)

const (
	upsertWishlistSQL = `INSERT INTO wishlists (id, user_id, product_id, is_liked, updated)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT ON CONSTRAINT wishlists_user_product_key
		DO UPDATE SET is_liked = EXCLUDED.is_liked, updated = now()`

	listWishlistByUserSQL = `SELECT id, user_id, product_id, is_liked, updated
		FROM wishlists WHERE user_id = $1 ORDER BY updated DESC`

	deleteWishlistSQL = `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`
)

var _ wishlist.Repository = (*WishlistRepository)(nil)

// WishlistRepository implements wishlist.Repository backed by PostgreSQL.
// The user+product unique constraint makes Upsert idempotent per pair.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

func (r *WishlistRepository) Upsert(ctx context.Context, e *wishlist.Entry) error {
	_, err := r.pool.Exec(ctx, upsertWishlistSQL, e.ID, e.UserID, e.ProductID, e.IsLiked)
	if err != nil {
		return fmt.Errorf("upserting wishlist entry: %w", err)
	}
	return nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]wishlist.Entry, error) {
	rows, err := r.pool.Query(ctx, listWishlistByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	return pgx.CollectRows(rows, scanWishlistEntry)
}

func (r *WishlistRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteWishlistSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting wishlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wishlist.ErrNotFound
	}
	return nil
}

func scanWishlistEntry(row pgx.CollectableRow) (wishlist.Entry, error) {
	var e wishlist.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.ProductID, &e.IsLiked, &e.Updated)
	return e, err
}
