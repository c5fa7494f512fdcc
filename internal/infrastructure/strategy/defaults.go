package strategy

import (
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/shared/strategy"
	"github.com/petshop/backend/internal/infrastructure/strategy/pricing"
)

// NewRegistryWithProvider creates a registry holding the promotion strategy
// (the default, used for retail shoppers) and the reseller tier strategy
// backed by provider.
func NewRegistryWithProvider(provider pricing.ResellerCategoryProvider, policy domainpricing.TierPolicy) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	promo := pricing.NewPromotionPricingStrategy()
	if err := r.RegisterPricingStrategy(promo); err != nil {
		return nil, err
	}

	tier := pricing.NewResellerTierPricingStrategy(provider, policy)
	if err := r.RegisterPricingStrategy(tier); err != nil {
		return nil, err
	}

	if err := r.SetDefault(strategy.StrategyTypePricing, promo.Name()); err != nil {
		return nil, err
	}
	return r, nil
}

// ForViewer returns the strategy a viewer is priced with. Promo pricing and
// tier pricing never combine.
func (r *StrategyRegistry) ForViewer(isReseller bool) (strategy.PricingStrategy, error) {
	if isReseller {
		return r.GetPricingStrategy(pricing.StrategyNameResellerTier)
	}
	return r.GetPricingStrategy("")
}
