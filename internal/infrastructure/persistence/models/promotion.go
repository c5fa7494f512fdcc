package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// PromotionModel is the persistence model for the Promotion aggregate
type PromotionModel struct {
	TenantAggregateModel
	Name        string                  `gorm:"type:varchar(200);not null"`
	Description string                  `gorm:"type:text"`
	StartDate   time.Time               `gorm:"not null;index:idx_promotion_window,priority:2"`
	EndDate     time.Time               `gorm:"not null;index:idx_promotion_window,priority:3"`
	IsActive    bool                    `gorm:"not null;default:false"`
	IsDeleted   bool                    `gorm:"not null;default:false;index"`
	Variants    []PromotionVariantModel `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PromotionModel) TableName() string {
	return "promotions"
}

// PromotionVariantModel is one covered variant row. Position keeps the
// authored product and variant order.
type PromotionVariantModel struct {
	ID                 uuid.UUID                  `gorm:"type:uuid;primary_key"`
	PromotionID        uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID                  `gorm:"type:uuid;not null;index"`
	VariantID          uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Position           int                        `gorm:"not null;default:0"`
	OriginalPrice      valueobject.CurrencyPrices `gorm:"type:jsonb;not null"`
	DiscountPercentage valueobject.CurrencyPrices `gorm:"type:jsonb;not null"`
	DiscountedPrice    valueobject.CurrencyPrices `gorm:"type:jsonb;not null"`
	IsActive           bool                       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PromotionVariantModel) TableName() string {
	return "promotion_variants"
}

// ToDomain converts the persistence model to a domain Promotion, grouping
// variant rows back under their product in position order.
func (m *PromotionModel) ToDomain() *promotion.Promotion {
	p := &promotion.Promotion{
		Name:        m.Name,
		Description: m.Description,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		IsActive:    m.IsActive,
		IsDeleted:   m.IsDeleted,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)

	sortByPosition(m.Variants, func(v PromotionVariantModel) int { return v.Position })
	index := make(map[uuid.UUID]int)
	for _, row := range m.Variants {
		i, ok := index[row.ProductID]
		if !ok {
			i = len(p.Products)
			index[row.ProductID] = i
			p.Products = append(p.Products, promotion.PromotionProduct{ProductID: row.ProductID})
		}
		p.Products[i].Variants = append(p.Products[i].Variants, promotion.PromotionVariant{
			VariantID:          row.VariantID,
			OriginalPrice:      row.OriginalPrice,
			DiscountPercentage: row.DiscountPercentage,
			DiscountedPrice:    row.DiscountedPrice,
			IsActive:           row.IsActive,
		})
	}
	return p
}

// FromDomain populates the persistence model from a domain Promotion
func (m *PromotionModel) FromDomain(p *promotion.Promotion) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.IsActive = p.IsActive
	m.IsDeleted = p.IsDeleted

	m.Variants = m.Variants[:0]
	position := 0
	for _, prod := range p.Products {
		for _, v := range prod.Variants {
			m.Variants = append(m.Variants, PromotionVariantModel{
				ID:                 uuid.New(),
				PromotionID:        p.ID,
				ProductID:          prod.ProductID,
				VariantID:          v.VariantID,
				Position:           position,
				OriginalPrice:      nonNilPrices(v.OriginalPrice),
				DiscountPercentage: nonNilPrices(v.DiscountPercentage),
				DiscountedPrice:    nonNilPrices(v.DiscountedPrice),
				IsActive:           v.IsActive,
			})
			position++
		}
	}
}

// PromotionModelFromDomain creates a new persistence model from a domain Promotion
func PromotionModelFromDomain(p *promotion.Promotion) *PromotionModel {
	m := &PromotionModel{}
	m.FromDomain(p)
	return m
}

func nonNilPrices(p valueobject.CurrencyPrices) valueobject.CurrencyPrices {
	if p == nil {
		return valueobject.CurrencyPrices{}
	}
	return p
}
