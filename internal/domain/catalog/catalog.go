// Package catalog couples brand/category availability to the products
// they reference: deactivating a brand or category deactivates every
// contained product, while products stay identifiable for order history.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/brand"
	"github.com/mercatus-io/storefront/internal/domain/category"
	"github.com/mercatus-io/storefront/internal/domain/product"
)

// Service applies availability changes across the catalog.
type Service struct {
	brands     brand.Repository
	categories category.Repository
	products   product.Repository
}

// NewService creates a catalog Service with the required repositories.
func NewService(brands brand.Repository, categories category.Repository, products product.Repository) *Service {
	return &Service{
		brands:     brands,
		categories: categories,
		products:   products,
	}
}

// DisableProducts deactivates every listed product id, independent of any
// product's own toggle history. Empty input is a no-op.
func (s *Service) DisableProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.products.SetActive(ctx, false, ids...); err != nil {
		return errors.Wrap(err, "disable products")
	}
	return nil
}

// SetBrandActive flips a brand's active flag. Deactivation cascades to
// every product referencing the brand.
func (s *Service) SetBrandActive(ctx context.Context, brandID uuid.UUID, active bool) error {
	b, err := s.brands.GetByID(ctx, brandID)
	if err != nil {
		return errors.Wrap(err, "resolve brand")
	}

	b.IsActive = active
	if err := s.brands.Update(ctx, b); err != nil {
		return errors.Wrap(err, "update brand")
	}

	if active {
		return nil
	}

	products, err := s.products.ListByBrand(ctx, brandID)
	if err != nil {
		return errors.Wrap(err, "list brand products")
	}
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return s.DisableProducts(ctx, ids)
}

// SetCategoryActive flips a category's active flag. Deactivation cascades
// to every product the category lists.
func (s *Service) SetCategoryActive(ctx context.Context, categoryID uuid.UUID, active bool) error {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return errors.Wrap(err, "resolve category")
	}

	c.IsActive = active
	if err := s.categories.Update(ctx, c); err != nil {
		return errors.Wrap(err, "update category")
	}

	if active {
		return nil
	}
	return s.DisableProducts(ctx, c.ProductIDs)
}
