package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingContext carries everything needed to price one order line
type PricingContext struct {
	TenantID           uuid.UUID
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	CategoryID         uuid.UUID
	ResellerCategoryID *uuid.UUID
	// ResellerCategory is the already loaded category of ResellerCategoryID.
	// Callers inside a transaction must set it so pricing never reaches
	// for a second pooled connection.
	ResellerCategory *reseller.ResellerCategory
	Quantity           int
	BasePrice          decimal.Decimal
	Currency           valueobject.Currency
	At                 time.Time
	// Promotions is the active snapshot, newest first
	Promotions []promotion.Promotion
}

// PricingResult contains the result of pricing calculation
type PricingResult struct {
	UnitPrice         decimal.Decimal
	OriginalUnitPrice decimal.Decimal
	TotalPrice        decimal.Decimal
	DiscountAmount    decimal.Decimal
	DiscountPercent   decimal.Decimal
	HasDiscount       bool
	Currency          valueobject.Currency
	AppliedRules      []string
}

// PricingStrategy defines the interface for pricing calculation
type PricingStrategy interface {
	Strategy
	// CalculatePrice calculates the line price for a given pricing context
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
	// SupportsPromotion returns true if the strategy applies campaign discounts
	SupportsPromotion() bool
	// SupportsTieredPricing returns true if the strategy applies quantity tiers
	SupportsTieredPricing() bool
}
