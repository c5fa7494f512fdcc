package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Resolver binds the pure pricing functions to a clock and a tier policy
type Resolver struct {
	now    func() time.Time
	policy TierPolicy
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithClock overrides time.Now
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithTierPolicy sets the reseller tier selection policy
func WithTierPolicy(p TierPolicy) ResolverOption {
	return func(r *Resolver) {
		r.policy = p
	}
}

// NewResolver creates a Resolver using time.Now and the default tier policy
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{now: time.Now, policy: DefaultTierPolicy}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the resolver's current instant
func (r *Resolver) Now() time.Time {
	return r.now()
}

// TierPolicy returns the configured tier policy
func (r *Resolver) TierPolicy() TierPolicy {
	return r.policy
}

// FinalPrice resolves a single variant at the current instant
func (r *Resolver) FinalPrice(basePrice decimal.Decimal, currency valueobject.Currency, productID, variantID uuid.UUID, promotions []promotion.Promotion, isReseller bool) ResolvedPrice {
	return ResolveFinalPrice(basePrice, currency, productID, variantID, promotions, isReseller, r.now())
}

// ProductMinPrice resolves a listing price at the current instant
func (r *Resolver) ProductMinPrice(variants []PricedVariant, productID uuid.UUID, currency valueobject.Currency, promotions []promotion.Promotion, isReseller bool) ProductMinPrice {
	return GetProductMinPrice(variants, productID, currency, promotions, isReseller, r.now())
}

// ResellerPrice selects the tier for quantity and applies it to basePrice
func (r *Resolver) ResellerPrice(basePrice decimal.Decimal, currency valueobject.Currency, tiers []reseller.TierDiscount, quantity int, productCategoryID uuid.UUID) (ResolvedPrice, *reseller.TierDiscount) {
	tier, ok := SelectTier(tiers, quantity, productCategoryID, r.policy)
	if !ok {
		return undiscounted(basePrice), nil
	}
	return ResolveResellerPrice(basePrice, currency, &tier), &tier
}
