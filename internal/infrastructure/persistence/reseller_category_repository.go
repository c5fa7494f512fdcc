package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormResellerCategoryRepository implements ResellerCategoryRepository using GORM
type GormResellerCategoryRepository struct {
	db *gorm.DB
}

// NewGormResellerCategoryRepository creates a new GormResellerCategoryRepository
func NewGormResellerCategoryRepository(db *gorm.DB) *GormResellerCategoryRepository {
	return &GormResellerCategoryRepository{db: db}
}

// FindByIDForTenant finds a reseller category by ID within a tenant
func (r *GormResellerCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reseller.ResellerCategory, error) {
	var model models.ResellerCategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists reseller categories for a tenant
func (r *GormResellerCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reseller.ResellerCategory, error) {
	var rows []models.ResellerCategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted, searchScope(filter.Search, "name")).
		Scopes(paginate(filter, ResellerCategorySortFields, "name ASC")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]reseller.ResellerCategory, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts reseller categories matching the filter
func (r *GormResellerCategoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResellerCategoryModel{}).
		Scopes(tenantScope(tenantID), notDeleted, searchScope(filter.Search, "name")).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a live category with the given name exists in the tenant
func (r *GormResellerCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResellerCategoryModel{}).
		Scopes(tenantScope(tenantID), notDeleted).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a reseller category
func (r *GormResellerCategoryRepository) Save(ctx context.Context, category *reseller.ResellerCategory) error {
	return r.db.WithContext(ctx).Save(models.ResellerCategoryModelFromDomain(category)).Error
}

// Ensure GormResellerCategoryRepository implements ResellerCategoryRepository
var _ reseller.ResellerCategoryRepository = (*GormResellerCategoryRepository)(nil)
