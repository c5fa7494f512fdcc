package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/order"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	TenantAggregateModel
	OrderNumber string               `gorm:"type:varchar(40);not null;uniqueIndex"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	PricingMode order.PricingMode    `gorm:"type:varchar(20);not null"`
	Subtotal    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status      order.Status         `gorm:"type:varchar(20);not null;index"`
	Note        string               `gorm:"type:text"`
	PaidAt      *time.Time
	ShippedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID          uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName        string          `gorm:"type:varchar(200);not null"`
	SKU                string          `gorm:"column:sku;type:varchar(64);not null"`
	Quantity           int             `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OriginalUnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	LineTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AppliedRule        string          `gorm:"type:varchar(100)"`
	Position           int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OrderNumber: m.OrderNumber,
		UserID:      m.UserID,
		Currency:    m.Currency,
		PricingMode: m.PricingMode,
		Subtotal:    m.Subtotal,
		Discount:    m.Discount,
		Total:       m.Total,
		Status:      m.Status,
		Note:        m.Note,
		PaidAt:      m.PaidAt,
		ShippedAt:   m.ShippedAt,
		CompletedAt: m.CompletedAt,
		CancelledAt: m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)

	sortByPosition(m.Items, func(i OrderItemModel) int { return i.Position })
	o.Items = make([]order.Item, len(m.Items))
	for i, it := range m.Items {
		o.Items[i] = order.Item{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			VariantID:          it.VariantID,
			ProductName:        it.ProductName,
			SKU:                it.SKU,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			OriginalUnitPrice:  it.OriginalUnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			LineTotal:          it.LineTotal,
			AppliedRule:        it.AppliedRule,
		}
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Currency:    o.Currency,
		PricingMode: o.PricingMode,
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Total:       o.Total,
		Status:      o.Status,
		Note:        o.Note,
		PaidAt:      o.PaidAt,
		ShippedAt:   o.ShippedAt,
		CompletedAt: o.CompletedAt,
		CancelledAt: o.CancelledAt,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)

	m.Items = make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:                 it.ID,
			OrderID:            o.ID,
			ProductID:          it.ProductID,
			VariantID:          it.VariantID,
			ProductName:        it.ProductName,
			SKU:                it.SKU,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			OriginalUnitPrice:  it.OriginalUnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			LineTotal:          it.LineTotal,
			AppliedRule:        it.AppliedRule,
			Position:           i,
		}
	}
	return m
}

// AllModels lists every persistence model, in dependency order, for
// schema bootstrapping with AutoMigrate.
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&ResellerCategoryModel{},
		&UserModel{},
		&PromotionModel{},
		&PromotionVariantModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
