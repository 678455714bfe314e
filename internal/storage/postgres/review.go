package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/review"
)

const (
	createReviewSQL = `INSERT INTO reviews (id, product_id, user_id, title, rating, review, is_recommended, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getReviewByIDSQL = `SELECT id, product_id, user_id, title, rating, review, is_recommended, status, created
		FROM reviews WHERE id = $1`

	listReviewsSQL = `SELECT id, product_id, user_id, title, rating, review, is_recommended, status, created
		FROM reviews ORDER BY created DESC`

	listReviewsByProductSQL = `SELECT id, product_id, user_id, title, rating, review, is_recommended, status, created
		FROM reviews WHERE product_id = $1 ORDER BY created DESC`

	listApprovedReviewsByProductSQL = `SELECT id, product_id, user_id, title, rating, review, is_recommended, status, created
		FROM reviews WHERE product_id = $1 AND status = 'Approved' ORDER BY created DESC`

	updateReviewSQL = `UPDATE reviews SET title = $2, rating = $3, review = $4, is_recommended = $5, status = $6
		WHERE id = $1`

	deleteReviewSQL = `DELETE FROM reviews WHERE id = $1`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.pool.Exec(ctx, createReviewSQL,
		rv.ID, rv.ProductID, rv.UserID, rv.Title, rv.Rating, rv.Review, rv.IsRecommended, rv.Status,
	)
	if err != nil {
		return fmt.Errorf("creating review %q: %w", rv.ID, err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	rows, err := r.pool.Query(ctx, getReviewByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting review %q: %w", id, err)
	}
	rv, err := pgx.CollectExactlyOneRow(rows, scanReview)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrNotFound
		}
		return nil, fmt.Errorf("getting review %q: %w", id, err)
	}
	return &rv, nil
}

func (r *ReviewRepository) List(ctx context.Context) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) ([]review.Review, error) {
	query := listReviewsByProductSQL
	if approvedOnly {
		query = listApprovedReviewsByProductSQL
	}
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing product reviews: %w", err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	tag, err := r.pool.Exec(ctx, updateReviewSQL,
		rv.ID, rv.Title, rv.Rating, rv.Review, rv.IsRecommended, rv.Status,
	)
	if err != nil {
		return fmt.Errorf("updating review %q: %w", rv.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteReviewSQL, id)
	if err != nil {
		return fmt.Errorf("deleting review %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Title, &rv.Rating, &rv.Review, &rv.IsRecommended, &rv.Status, &rv.Created)
	return rv, err
}
