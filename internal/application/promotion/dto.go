package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// Promotion lifecycle states reported to the admin console
const (
	StatusInactive  = "inactive"
	StatusScheduled = "scheduled"
	StatusRunning   = "running"
	StatusEnded     = "ended"
)

// PromotionVariantRequest sets the promo pricing of one variant. An empty
// OriginalPrice is filled from the catalog price of the variant.
type PromotionVariantRequest struct {
	VariantID          uuid.UUID                  `json:"variant_id" binding:"required"`
	OriginalPrice      valueobject.CurrencyPrices `json:"original_price"`
	DiscountPercentage valueobject.CurrencyPrices `json:"discount_percentage" binding:"required"`
	IsActive           *bool                      `json:"is_active"`
}

// PromotionProductRequest lists the covered variants of one product
type PromotionProductRequest struct {
	ProductID uuid.UUID                 `json:"product_id" binding:"required"`
	Variants  []PromotionVariantRequest `json:"variants" binding:"required,min=1,dive"`
}

// CreatePromotionRequest represents a request to create a promotion
type CreatePromotionRequest struct {
	Name        string                    `json:"name" binding:"required,min=1,max=200"`
	Description string                    `json:"description" binding:"max=2000"`
	StartDate   time.Time                 `json:"start_date" binding:"required"`
	EndDate     time.Time                 `json:"end_date" binding:"required,gtfield=StartDate"`
	IsActive    bool                      `json:"is_active"`
	Products    []PromotionProductRequest `json:"products" binding:"omitempty,max=500,dive"`
	CreatedBy   *uuid.UUID                `json:"-"`
}

// UpdatePromotionRequest edits name and description
type UpdatePromotionRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// RescheduleRequest moves the promotion window
type RescheduleRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
}

// ReplaceProductsRequest swaps the covered products
type ReplaceProductsRequest struct {
	Products []PromotionProductRequest `json:"products" binding:"max=500,dive"`
}

// PromotionListFilter represents filter options for the promotion list
type PromotionListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PromotionVariantResponse is the promo pricing of one variant
type PromotionVariantResponse struct {
	VariantID          uuid.UUID                  `json:"variant_id"`
	OriginalPrice      valueobject.CurrencyPrices `json:"original_price"`
	DiscountPercentage valueobject.CurrencyPrices `json:"discount_percentage"`
	DiscountedPrice    valueobject.CurrencyPrices `json:"discounted_price"`
	IsActive           bool                       `json:"is_active"`
}

// PromotionProductResponse lists the covered variants of one product
type PromotionProductResponse struct {
	ProductID uuid.UUID                  `json:"product_id"`
	Variants  []PromotionVariantResponse `json:"variants"`
}

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	StartDate   time.Time                  `json:"start_date"`
	EndDate     time.Time                  `json:"end_date"`
	IsActive    bool                       `json:"is_active"`
	Status      string                     `json:"status"`
	Products    []PromotionProductResponse `json:"products"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	Version     int                        `json:"version"`
}

// ToPromotionResponse converts a domain Promotion to PromotionResponse
func ToPromotionResponse(p *promotion.Promotion, now time.Time) PromotionResponse {
	products := make([]PromotionProductResponse, len(p.Products))
	for i, pp := range p.Products {
		variants := make([]PromotionVariantResponse, len(pp.Variants))
		for j, v := range pp.Variants {
			variants[j] = PromotionVariantResponse{
				VariantID:          v.VariantID,
				OriginalPrice:      v.OriginalPrice,
				DiscountPercentage: v.DiscountPercentage,
				DiscountedPrice:    v.DiscountedPrice,
				IsActive:           v.IsActive,
			}
		}
		products[i] = PromotionProductResponse{ProductID: pp.ProductID, Variants: variants}
	}
	return PromotionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsActive:    p.IsActive,
		Status:      lifecycleStatus(p, now),
		Products:    products,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

func lifecycleStatus(p *promotion.Promotion, now time.Time) string {
	switch {
	case !p.IsActive:
		return StatusInactive
	case now.Before(p.StartDate):
		return StatusScheduled
	case now.After(p.EndDate):
		return StatusEnded
	default:
		return StatusRunning
	}
}
