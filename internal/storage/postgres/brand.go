package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/brand"
)

const (
	createBrandSQL = `INSERT INTO brands (id, merchant_id, name, slug, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getBrandByIDSQL = `SELECT id, merchant_id, name, slug, description, is_active, created
		FROM brands WHERE id = $1`

	listBrandsSQL = `SELECT id, merchant_id, name, slug, description, is_active, created
		FROM brands ORDER BY created DESC`

	listActiveBrandsSQL = `SELECT id, merchant_id, name, slug, description, is_active, created
		FROM brands WHERE is_active ORDER BY created DESC`

	updateBrandSQL = `UPDATE brands SET name = $2, slug = $3, description = $4, is_active = $5 WHERE id = $1`

	deleteBrandSQL = `DELETE FROM brands WHERE id = $1`
)

var _ brand.Repository = (*BrandRepository)(nil)

// BrandRepository implements brand.Repository backed by PostgreSQL.
type BrandRepository struct {
	pool *pgxpool.Pool
}

// NewBrandRepository returns a BrandRepository that uses the given pool.
func NewBrandRepository(pool *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{pool: pool}
}

func (r *BrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	_, err := r.pool.Exec(ctx, createBrandSQL,
		b.ID, b.MerchantID, b.Name, b.Slug, b.Description, b.IsActive,
	)
	if err != nil {
		return fmt.Errorf("creating brand %q: %w", b.ID, err)
	}
	return nil
}

func (r *BrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*brand.Brand, error) {
	rows, err := r.pool.Query(ctx, getBrandByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting brand %q: %w", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBrand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, brand.ErrNotFound
		}
		return nil, fmt.Errorf("getting brand %q: %w", id, err)
	}
	return &b, nil
}

func (r *BrandRepository) List(ctx context.Context, activeOnly bool) ([]brand.Brand, error) {
	query := listBrandsSQL
	if activeOnly {
		query = listActiveBrandsSQL
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	return pgx.CollectRows(rows, scanBrand)
}

func (r *BrandRepository) Update(ctx context.Context, b *brand.Brand) error {
	tag, err := r.pool.Exec(ctx, updateBrandSQL,
		b.ID, b.Name, b.Slug, b.Description, b.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating brand %q: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return brand.ErrNotFound
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteBrandSQL, id)
	if err != nil {
		return fmt.Errorf("deleting brand %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return brand.ErrNotFound
	}
	return nil
}

func scanBrand(row pgx.CollectableRow) (brand.Brand, error) {
	var b brand.Brand
	err := row.Scan(&b.ID, &b.MerchantID, &b.Name, &b.Slug, &b.Description, &b.IsActive, &b.Created)
	return b, err
}
