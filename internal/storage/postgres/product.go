package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/product"
)

const productColumns = `id, merchant_id, brand_id, sku, name, slug, description, image_url, image_key,
	quantity, price, taxable, is_active, created`

const (
	createProductSQL = `INSERT INTO products (id, merchant_id, brand_id, sku, name, slug, description,
		image_url, image_key, quantity, price, taxable, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	getProductByIDSQL   = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	getProductBySlugSQL = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	getProductBySKUSQL  = `SELECT ` + productColumns + ` FROM products WHERE sku = $1`

	listProductsSQL       = `SELECT ` + productColumns + ` FROM products ORDER BY created DESC`
	listActiveProductsSQL = `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY created DESC`
	listByBrandSQL        = `SELECT ` + productColumns + ` FROM products WHERE brand_id = $1`
	searchProductsSQL     = `SELECT ` + productColumns + ` FROM products WHERE name ILIKE '%' || $1 || '%' AND is_active`

	updateProductSQL = `UPDATE products SET sku = $2, name = $3, slug = $4, description = $5, image_url = $6,
		image_key = $7, quantity = $8, price = $9, taxable = $10, brand_id = $11 WHERE id = $1`

	setProductsActiveSQL     = `UPDATE products SET is_active = $1 WHERE id = ANY($2)`
	adjustProductQuantitySQL = `UPDATE products SET quantity = quantity + $2 WHERE id = $1`
	deleteProductSQL         = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.MerchantID, p.BrandID, p.SKU, p.Name, p.Slug, p.Description,
		p.ImageURL, p.ImageKey, p.Quantity, p.Price, p.Taxable, p.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err, "products_sku_key") {
			return product.ErrSKUTaken
		}
		if isUniqueViolation(err, "products_slug_key") {
			return product.ErrSlugTaken
		}
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return r.getOne(ctx, getProductByIDSQL, id)
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return r.getOne(ctx, getProductBySlugSQL, slug)
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return r.getOne(ctx, getProductBySKUSQL, sku)
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]product.Product, error) {
	query := listProductsSQL
	if activeOnly {
		query = listActiveProductsSQL
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) ListByBrand(ctx context.Context, brandID uuid.UUID) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listByBrandSQL, brandID)
	if err != nil {
		return nil, fmt.Errorf("listing brand products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) Search(ctx context.Context, name string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, searchProductsSQL, name)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.SKU, p.Name, p.Slug, p.Description, p.ImageURL,
		p.ImageKey, p.Quantity, p.Price, p.Taxable, p.BrandID,
	)
	if err != nil {
		if isUniqueViolation(err, "products_sku_key") || isUniqueViolation(err, "products_slug_key") {
			return product.ErrSlugTaken
		}
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) SetActive(ctx context.Context, active bool, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, setProductsActiveSQL, active, ids)
	if err != nil {
		return fmt.Errorf("setting products active: %w", err)
	}
	return nil
}

func (r *ProductRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.pool.Exec(ctx, adjustProductQuantitySQL, id, delta)
	if err != nil {
		return fmt.Errorf("adjusting product %q quantity: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) getOne(ctx context.Context, query string, arg any) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.MerchantID, &p.BrandID, &p.SKU, &p.Name, &p.Slug, &p.Description,
		&p.ImageURL, &p.ImageKey, &p.Quantity, &p.Price, &p.Taxable, &p.IsActive, &p.Created,
	)
	return p, err
}
