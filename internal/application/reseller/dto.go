package reseller

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/reseller"
)

// CreateResellerCategoryRequest represents a request to create a reseller category
type CreateResellerCategoryRequest struct {
	Name      string                  `json:"name" binding:"required,min=1,max=100"`
	Currency  string                  `json:"currency" binding:"required,currency_code"`
	Tiers     []reseller.TierDiscount `json:"tier_discount" binding:"omitempty,max=50"`
	CreatedBy *uuid.UUID              `json:"-"`
}

// UpdateResellerCategoryRequest renames a category or changes its currency
type UpdateResellerCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Currency *string `json:"currency" binding:"omitempty,currency_code"`
}

// ReplaceTiersRequest swaps the full tier list
type ReplaceTiersRequest struct {
	Tiers []reseller.TierDiscount `json:"tier_discount" binding:"max=50"`
}

// ResellerCategoryListFilter represents filter options for the category list
type ResellerCategoryListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ResellerCategoryResponse represents a reseller category in API responses
type ResellerCategoryResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	Currency  string                  `json:"currency"`
	Tiers     []reseller.TierDiscount `json:"tier_discount"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Version   int                     `json:"version"`
}

// ToResellerCategoryResponse converts a domain ResellerCategory to its response
func ToResellerCategoryResponse(c *reseller.ResellerCategory) ResellerCategoryResponse {
	tiers := c.Tiers
	if tiers == nil {
		tiers = []reseller.TierDiscount{}
	}
	return ResellerCategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Currency:  c.Currency.String(),
		Tiers:     tiers,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}
