package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence.
// Soft-deleted categories are never returned.
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Category, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error)
	Save(ctx context.Context, category *Category) error
}

// ProductRepository defines the interface for product persistence.
// Products are always loaded with their variants; soft-deleted products are
// never returned.
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug within a tenant
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Product, error)

	// FindBySKU finds the product owning a variant SKU
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForTenant lists products.
	// Supported filter keys: "category_id" (uuid.UUID), "status" (ProductStatus).
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForTenant counts products matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a product and replaces its variants
	Save(ctx context.Context, product *Product) error
}
