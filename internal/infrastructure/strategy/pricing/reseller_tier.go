package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/strategy"
)

// StrategyNameResellerTier is the registry name of the reseller strategy
const StrategyNameResellerTier = "reseller_tier"

// ResellerCategoryProvider looks up the category a reseller is priced under
type ResellerCategoryProvider interface {
	GetResellerCategory(ctx context.Context, tenantID, id uuid.UUID) (*reseller.ResellerCategory, error)
}

// ResellerTierPricingStrategy prices reseller lines from their category's
// quantity tiers. Promotions are never applied.
type ResellerTierPricingStrategy struct {
	strategy.BaseStrategy
	provider ResellerCategoryProvider
	policy   domainpricing.TierPolicy
}

// NewResellerTierPricingStrategy creates the tier strategy
func NewResellerTierPricingStrategy(provider ResellerCategoryProvider, policy domainpricing.TierPolicy) *ResellerTierPricingStrategy {
	if policy == "" {
		policy = domainpricing.DefaultTierPolicy
	}
	return &ResellerTierPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			StrategyNameResellerTier,
			strategy.StrategyTypePricing,
			"Reseller pricing from quantity tiers of the reseller category",
		),
		provider: provider,
		policy:   policy,
	}
}

// Policy returns the tier selection policy in use
func (s *ResellerTierPricingStrategy) Policy() domainpricing.TierPolicy {
	return s.policy
}

// CalculatePrice selects the tier for the line quantity and product category
func (s *ResellerTierPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	category, err := s.category(ctx, pricingCtx)
	if err != nil {
		return strategy.PricingResult{}, err
	}

	var resolved domainpricing.ResolvedPrice
	if tier, ok := domainpricing.SelectTier(category.Tiers, pricingCtx.Quantity, pricingCtx.CategoryID, s.policy); ok {
		resolved = domainpricing.ResolveResellerPrice(pricingCtx.BasePrice, pricingCtx.Currency, &tier)
	} else {
		resolved = domainpricing.ResolveResellerPrice(pricingCtx.BasePrice, pricingCtx.Currency, nil)
	}
	return toResult(resolved, pricingCtx, StrategyNameResellerTier+":"+string(s.policy)), nil
}

// category returns the preloaded category of the context, falling back to
// the provider only when none was supplied.
func (s *ResellerTierPricingStrategy) category(ctx context.Context, pricingCtx strategy.PricingContext) (*reseller.ResellerCategory, error) {
	if c := pricingCtx.ResellerCategory; c != nil {
		if pricingCtx.ResellerCategoryID != nil && *pricingCtx.ResellerCategoryID != c.ID {
			return nil, fmt.Errorf("%w: reseller category does not match its id", shared.ErrInvalidInput)
		}
		if c.IsDeleted {
			return nil, shared.ErrNotFound
		}
		return c, nil
	}
	if pricingCtx.ResellerCategoryID == nil {
		return nil, fmt.Errorf("%w: reseller category is required for tier pricing", shared.ErrInvalidInput)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: no reseller category provider configured", shared.ErrInvalidState)
	}
	return s.provider.GetResellerCategory(ctx, pricingCtx.TenantID, *pricingCtx.ResellerCategoryID)
}

func (s *ResellerTierPricingStrategy) SupportsPromotion() bool {
	return false
}

func (s *ResellerTierPricingStrategy) SupportsTieredPricing() bool {
	return true
}

var _ strategy.PricingStrategy = (*ResellerTierPricingStrategy)(nil)

// RepositoryResellerCategoryProvider implements ResellerCategoryProvider on
// top of the reseller category repository.
type RepositoryResellerCategoryProvider struct {
	repo reseller.ResellerCategoryRepository
}

// NewRepositoryResellerCategoryProvider creates a repository-backed provider
func NewRepositoryResellerCategoryProvider(repo reseller.ResellerCategoryRepository) *RepositoryResellerCategoryProvider {
	return &RepositoryResellerCategoryProvider{repo: repo}
}

// GetResellerCategory loads the category, treating soft-deleted ones as missing
func (p *RepositoryResellerCategoryProvider) GetResellerCategory(ctx context.Context, tenantID, id uuid.UUID) (*reseller.ResellerCategory, error) {
	category, err := p.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if category.IsDeleted {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

var _ ResellerCategoryProvider = (*RepositoryResellerCategoryProvider)(nil)
