package models

import (
	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// CategoryModel is the persistence model for the Category aggregate
type CategoryModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;index"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
	IsDeleted   bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	c := &catalog.Category{
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		SortOrder:   m.SortOrder,
		IsDeleted:   m.IsDeleted,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CategoryModelFromDomain creates a new persistence model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsDeleted:   c.IsDeleted,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	TenantAggregateModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Slug        string                `gorm:"type:varchar(220);not null;index"`
	Description string                `gorm:"type:text"`
	CategoryID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status      catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsDeleted   bool                  `gorm:"not null;default:false;index"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductVariantModel is the persistence model for a sellable variant
type ProductVariantModel struct {
	ID        uuid.UUID                  `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	SKU       string                     `gorm:"column:sku;type:varchar(64);not null;index"`
	Name      string                     `gorm:"type:varchar(200);not null"`
	Price     valueobject.CurrencyPrices `gorm:"type:jsonb;not null"`
	Stock     int                        `gorm:"not null;default:0"`
	Position  int                        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		Status:      m.Status,
		IsDeleted:   m.IsDeleted,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)

	sortByPosition(m.Variants, func(v ProductVariantModel) int { return v.Position })
	p.Variants = make([]catalog.Variant, len(m.Variants))
	for i, v := range m.Variants {
		p.Variants[i] = catalog.Variant{
			ID:    v.ID,
			SKU:   v.SKU,
			Name:  v.Name,
			Price: v.Price,
			Stock: v.Stock,
		}
	}
	return p
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
		IsDeleted:   p.IsDeleted,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)

	m.Variants = make([]ProductVariantModel, len(p.Variants))
	for i, v := range p.Variants {
		m.Variants[i] = ProductVariantModel{
			ID:        v.ID,
			TenantID:  p.TenantID,
			ProductID: p.ID,
			SKU:       v.SKU,
			Name:      v.Name,
			Price:     nonNilPrices(v.Price),
			Stock:     v.Stock,
			Position:  i,
		}
	}
	return m
}
