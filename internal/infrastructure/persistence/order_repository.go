package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/order"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order with its items within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		Preload("Items").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders for a tenant
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), tenantID, filter)
	if err := query.
		Scopes(paginate(filter, OrderSortFields, "created_at DESC")).
		Preload("Items").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]order.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts orders matching the filter
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order. Items are immutable once placed, so
// they are only written when the order is first created.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&models.OrderItemModel{}).
			Where("order_id = ?", model.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 || len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Scopes(tenantScope(tenantID), searchScope(filter.Search, "order_number"))
	switch v := filter.Filters["user_id"].(type) {
	case uuid.UUID:
		query = query.Where("user_id = ?", v)
	case string:
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("user_id = ?", id)
		}
	}
	switch v := filter.Filters["status"].(type) {
	case order.Status:
		query = query.Where("status = ?", v)
	case string:
		if v != "" {
			query = query.Where("status = ?", v)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
