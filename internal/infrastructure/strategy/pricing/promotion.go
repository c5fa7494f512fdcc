package pricing

import (
	"context"

	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/shared/strategy"
)

// StrategyNamePromotion is the registry name of the campaign strategy
const StrategyNamePromotion = "promotion"

// PromotionPricingStrategy prices retail lines from the active campaigns
type PromotionPricingStrategy struct {
	strategy.BaseStrategy
}

// NewPromotionPricingStrategy creates the campaign pricing strategy
func NewPromotionPricingStrategy() *PromotionPricingStrategy {
	return &PromotionPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			StrategyNamePromotion,
			strategy.StrategyTypePricing,
			"Retail pricing with the newest active promotion applied per variant",
		),
	}
}

// CalculatePrice applies the first matching active promotion in the
// snapshot carried by pricingCtx.
func (s *PromotionPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	resolved := domainpricing.ResolveFinalPrice(
		pricingCtx.BasePrice,
		pricingCtx.Currency,
		pricingCtx.ProductID,
		pricingCtx.VariantID,
		pricingCtx.Promotions,
		false,
		pricingCtx.At,
	)
	return toResult(resolved, pricingCtx, StrategyNamePromotion), nil
}

func (s *PromotionPricingStrategy) SupportsPromotion() bool {
	return true
}

func (s *PromotionPricingStrategy) SupportsTieredPricing() bool {
	return false
}

var _ strategy.PricingStrategy = (*PromotionPricingStrategy)(nil)
