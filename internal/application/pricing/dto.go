package pricing

import (
	"github.com/google/uuid"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// VariantPriceResponse is the resolved price of one variant
type VariantPriceResponse struct {
	ProductID          uuid.UUID       `json:"product_id"`
	VariantID          uuid.UUID       `json:"variant_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Currency           string          `json:"currency"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	HasDiscount        bool            `json:"has_discount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	InStock            bool            `json:"in_stock"`
}

// ProductPricesResponse lists the variant prices of a product in the
// viewer's currency. Variants unpriced in that currency are left out.
type ProductPricesResponse struct {
	ProductID uuid.UUID                     `json:"product_id"`
	Name      string                        `json:"name"`
	Slug      string                        `json:"slug"`
	Currency  string                        `json:"currency"`
	Summary   domainpricing.ProductMinPrice `json:"summary"`
	Variants  []VariantPriceResponse        `json:"variants"`
}

// ProductListingItem is one catalog card
type ProductListingItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"category_id"`
	Currency   string    `json:"currency"`
	domainpricing.ProductMinPrice
}

// ListingFilter selects the storefront catalog page
type ListingFilter struct {
	Search     string     `form:"search" binding:"max=100"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// QuoteLine asks for the tier price of a variant at a quantity
type QuoteLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// QuoteRequest is a reseller price quote request
type QuoteRequest struct {
	Items []QuoteLine `json:"items" binding:"required,min=1,max=100,dive"`
}

// QuoteLineResponse is the tier price of one line
type QuoteLineResponse struct {
	ProductID           uuid.UUID       `json:"product_id"`
	VariantID           uuid.UUID       `json:"variant_id"`
	SKU                 string          `json:"sku"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	OriginalUnitPrice   decimal.Decimal `json:"original_unit_price"`
	DiscountPercentage  decimal.Decimal `json:"discount_percentage"`
	LineTotal           decimal.Decimal `json:"line_total"`
	TierMinimumQuantity *int            `json:"tier_minimum_quantity,omitempty"`
}

// QuoteResponse is a reseller price quote
type QuoteResponse struct {
	Currency         string              `json:"currency"`
	ResellerCategory string              `json:"reseller_category"`
	TierPolicy       string              `json:"tier_policy"`
	Items            []QuoteLineResponse `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Discount         decimal.Decimal     `json:"discount"`
	Total            decimal.Decimal     `json:"total"`
}
