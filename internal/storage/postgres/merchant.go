package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatus-io/storefront/internal/domain/merchant"
)

const (
	createMerchantSQL = `INSERT INTO merchants (id, name, email, phone_number, brand_name, business, is_active, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getMerchantByIDSQL = `SELECT id, name, email, phone_number, brand_name, business, is_active, status, created
		FROM merchants WHERE id = $1`

	listMerchantsSQL = `SELECT id, name, email, phone_number, brand_name, business, is_active, status, created
		FROM merchants ORDER BY created DESC`

	updateMerchantSQL = `UPDATE merchants SET name = $2, email = $3, phone_number = $4, brand_name = $5,
		business = $6, is_active = $7, status = $8 WHERE id = $1`

	deleteMerchantSQL = `DELETE FROM merchants WHERE id = $1`
)

var _ merchant.Repository = (*MerchantRepository)(nil)

// MerchantRepository implements merchant.Repository backed by PostgreSQL.
type MerchantRepository struct {
	pool *pgxpool.Pool
}

// NewMerchantRepository returns a MerchantRepository that uses the given pool.
func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

func (r *MerchantRepository) Create(ctx context.Context, m *merchant.Merchant) error {
	_, err := r.pool.Exec(ctx, createMerchantSQL,
		m.ID, m.Name, m.Email, m.PhoneNumber, m.BrandName, m.Business, m.IsActive, m.Status,
	)
	if err != nil {
		return fmt.Errorf("creating merchant %q: %w", m.ID, err)
	}
	return nil
}

func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	rows, err := r.pool.Query(ctx, getMerchantByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting merchant %q: %w", id, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanMerchant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, merchant.ErrNotFound
		}
		return nil, fmt.Errorf("getting merchant %q: %w", id, err)
	}
	return &m, nil
}

func (r *MerchantRepository) List(ctx context.Context) ([]merchant.Merchant, error) {
	rows, err := r.pool.Query(ctx, listMerchantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing merchants: %w", err)
	}
	return pgx.CollectRows(rows, scanMerchant)
}

func (r *MerchantRepository) Update(ctx context.Context, m *merchant.Merchant) error {
	tag, err := r.pool.Exec(ctx, updateMerchantSQL,
		m.ID, m.Name, m.Email, m.PhoneNumber, m.BrandName, m.Business, m.IsActive, m.Status,
	)
	if err != nil {
		return fmt.Errorf("updating merchant %q: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return merchant.ErrNotFound
	}
	return nil
}

func (r *MerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteMerchantSQL, id)
	if err != nil {
		return fmt.Errorf("deleting merchant %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return merchant.ErrNotFound
	}
	return nil
}

func scanMerchant(row pgx.CollectableRow) (merchant.Merchant, error) {
	var m merchant.Merchant
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.PhoneNumber, &m.BrandName, &m.Business, &m.IsActive, &m.Status, &m.Created)
	return m, err
}
