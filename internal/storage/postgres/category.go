package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/category"
)

const (
	createCategorySQL = `INSERT INTO categories (id, name, slug, description, product_ids, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getCategoryByIDSQL = `SELECT id, name, slug, description, product_ids, is_active, created
		FROM categories WHERE id = $1`

	getCategoryBySlugSQL = `SELECT id, name, slug, description, product_ids, is_active, created
		FROM categories WHERE slug = $1`

	listCategoriesSQL = `SELECT id, name, slug, description, product_ids, is_active, created
		FROM categories ORDER BY created DESC`

	listActiveCategoriesSQL = `SELECT id, name, slug, description, product_ids, is_active, created
		FROM categories WHERE is_active ORDER BY created DESC`

	updateCategorySQL = `UPDATE categories SET name = $2, slug = $3, description = $4,
		product_ids = $5, is_active = $6 WHERE id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
// Product references are stored in a UUID array column.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	_, err := r.pool.Exec(ctx, createCategorySQL,
		c.ID, c.Name, c.Slug, c.Description, c.ProductIDs, c.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_slug_key") {
			return category.ErrSlugTaken
		}
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return r.getOne(ctx, getCategoryByIDSQL, id)
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	return r.getOne(ctx, getCategoryBySlugSQL, slug)
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]category.Category, error) {
	query := listCategoriesSQL
	if activeOnly {
		query = listActiveCategoriesSQL
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	tag, err := r.pool.Exec(ctx, updateCategorySQL,
		c.ID, c.Name, c.Slug, c.Description, c.ProductIDs, c.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_slug_key") {
			return category.ErrSlugTaken
		}
		return fmt.Errorf("updating category %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) getOne(ctx context.Context, query string, arg any) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

func scanCategory(row pgx.CollectableRow) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ProductIDs, &c.IsActive, &c.Created)
	return c, err
}
