package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TierPolicy decides which tier applies when several thresholds are met
type TierPolicy string

const (
	// TierPolicyHighestThreshold picks the largest MinimumQuantity not
	// exceeding the ordered quantity. Ties go to the earliest tier in the list.
	TierPolicyHighestThreshold TierPolicy = "highest_threshold"
	// TierPolicyFirstQualifying picks the first tier in list order whose
	// MinimumQuantity does not exceed the ordered quantity.
	TierPolicyFirstQualifying TierPolicy = "first_qualifying"
)

// DefaultTierPolicy is used when configuration leaves the policy empty
const DefaultTierPolicy = TierPolicyHighestThreshold

// ParseTierPolicy validates a configured policy name
func ParseTierPolicy(s string) (TierPolicy, error) {
	switch TierPolicy(s) {
	case "":
		return DefaultTierPolicy, nil
	case TierPolicyHighestThreshold, TierPolicyFirstQualifying:
		return TierPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown tier policy %q", s)
	}
}

// SelectTier returns the tier applying to quantity units of a product in
// productCategoryID. Tiers scoped away from the category are ignored.
func SelectTier(tiers []reseller.TierDiscount, quantity int, productCategoryID uuid.UUID, policy TierPolicy) (reseller.TierDiscount, bool) {
	bestIdx := -1
	for i, t := range tiers {
		if !t.CategoryProduct.Includes(productCategoryID) {
			continue
		}
		if t.MinimumQuantity > quantity {
			continue
		}
		if policy == TierPolicyFirstQualifying {
			return t, true
		}
		// strict comparison keeps the earlier tier on ties
		if bestIdx < 0 || t.MinimumQuantity > tiers[bestIdx].MinimumQuantity {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return reseller.TierDiscount{}, false
	}
	return tiers[bestIdx], true
}

// ResolveResellerPrice applies a tier discount to basePrice, rounded to the
// currency scale. A nil tier or a zero discount returns the base price.
func ResolveResellerPrice(basePrice decimal.Decimal, currency valueobject.Currency, tier *reseller.TierDiscount) ResolvedPrice {
	if tier == nil || !tier.Discount.IsPositive() {
		return undiscounted(basePrice)
	}
	final := currency.ApplyPercentOff(basePrice, tier.Discount)
	if !final.LessThan(basePrice) {
		return undiscounted(basePrice)
	}
	return ResolvedPrice{
		FinalPrice:         final,
		OriginalPrice:      basePrice,
		HasDiscount:        true,
		DiscountPercentage: tier.Discount,
	}
}
