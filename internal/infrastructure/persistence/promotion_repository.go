package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByIDForTenant finds a promotion by ID within a tenant
func (r *GormPromotionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*promotion.Promotion, error) {
	var model models.PromotionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted).
		Preload("Variants").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists promotions for a tenant
func (r *GormPromotionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]promotion.Promotion, error) {
	var rows []models.PromotionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PromotionModel{}), tenantID, filter)
	if err := query.
		Scopes(paginate(filter, PromotionSortFields, "created_at DESC")).
		Preload("Variants").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return promotionsToDomain(rows), nil
}

// CountForTenant counts promotions matching the filter
func (r *GormPromotionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PromotionModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveAt returns promotions whose flag is on and whose window contains
// at, newest first. Equal creation times are broken by id so the first
// match is stable across calls.
func (r *GormPromotionRepository) FindActiveAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]promotion.Promotion, error) {
	var rows []models.PromotionModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), notDeleted).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, at, at).
		Order("created_at DESC, id DESC").
		Preload("Variants").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return promotionsToDomain(rows), nil
}

// Save creates or updates a promotion. The variant rows are replaced as a
// whole so the stored order always matches the aggregate.
func (r *GormPromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	model := models.PromotionModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("promotion_id = ?", model.ID).
			Delete(&models.PromotionVariantModel{}).Error; err != nil {
			return err
		}
		if len(model.Variants) == 0 {
			return nil
		}
		return tx.Create(&model.Variants).Error
	})
}

func (r *GormPromotionRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Scopes(tenantScope(tenantID), notDeleted, searchScope(filter.Search, "name"))
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

func promotionsToDomain(rows []models.PromotionModel) []promotion.Promotion {
	out := make([]promotion.Promotion, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormPromotionRepository implements PromotionRepository
var _ promotion.PromotionRepository = (*GormPromotionRepository)(nil)
