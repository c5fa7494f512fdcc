package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return r.first(ctx, tenantID, "id = ?", id)
}

// FindBySlug finds a product by its slug within a tenant
func (r *GormProductRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Product, error) {
	return r.first(ctx, tenantID, "slug = ?", strings.ToLower(slug))
}

// FindBySKU finds the product owning a variant SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	owner := r.db.WithContext(ctx).
		Model(&models.ProductVariantModel{}).
		Select("product_id").
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(strings.TrimSpace(sku)))
	return r.first(ctx, tenantID, "id IN (?)", owner)
}

// FindByIDs finds multiple products by their IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted).
		Where("id IN ?", ids).
		Preload("Variants").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// LockByIDs loads products with their rows locked until the surrounding
// transaction ends. SQLite serializes writers on its own and gets no
// locking clause.
func (r *GormProductRepository) LockByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.ProductModel
	if err := query.
		Scopes(tenantScope(tenantID), notDeleted).
		Where("id IN ?", ids).
		Order("id").
		Preload("Variants").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAllForTenant lists products for a tenant
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), tenantID, filter)
	if err := query.
		Scopes(paginate(filter, ProductSortFields, "created_at DESC")).
		Preload("Variants").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// CountForTenant counts products matching the filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product and replaces its variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", model.ID).
			Delete(&models.ProductVariantModel{}).Error; err != nil {
			return err
		}
		if len(model.Variants) == 0 {
			return nil
		}
		return tx.Create(&model.Variants).Error
	})
}

func (r *GormProductRepository) first(ctx context.Context, tenantID uuid.UUID, cond string, args ...any) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted).
		Where(cond, args...).
		Preload("Variants").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Scopes(tenantScope(tenantID), notDeleted, searchScope(filter.Search, "name", "slug"))
	switch v := filter.Filters["category_id"].(type) {
	case uuid.UUID:
		query = query.Where("category_id = ?", v)
	case string:
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}
	switch v := filter.Filters["status"].(type) {
	case catalog.ProductStatus:
		query = query.Where("status = ?", v)
	case string:
		if v != "" {
			query = query.Where("status = ?", v)
		}
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
