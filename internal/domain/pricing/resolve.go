package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ResolvedPrice is the per-unit price of one variant in one currency
type ResolvedPrice struct {
	FinalPrice         decimal.Decimal `json:"final_price"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	HasDiscount        bool            `json:"has_discount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

func undiscounted(base decimal.Decimal) ResolvedPrice {
	return ResolvedPrice{
		FinalPrice:         base,
		OriginalPrice:      base,
		HasDiscount:        false,
		DiscountPercentage: decimal.Zero,
	}
}

// ResolveFinalPrice applies the matching promotion to basePrice.
//
// Resellers always get the base price. A matched promotion only applies when
// it defines a discounted price in currency that is strictly below basePrice;
// anything else leaves the base price untouched. No rounding happens here.
func ResolveFinalPrice(
	basePrice decimal.Decimal,
	currency valueobject.Currency,
	productID, variantID uuid.UUID,
	promotions []promotion.Promotion,
	isReseller bool,
	now time.Time,
) ResolvedPrice {
	if isReseller {
		return undiscounted(basePrice)
	}

	match, ok := FindActivePromoForVariant(productID, variantID, promotions, now)
	if !ok {
		return undiscounted(basePrice)
	}

	discounted, ok := match.Variant.DiscountedPrice.Get(currency)
	if !ok || !discounted.LessThan(basePrice) {
		return undiscounted(basePrice)
	}

	pct, _ := match.Variant.DiscountPercentage.Get(currency)
	return ResolvedPrice{
		FinalPrice:         discounted,
		OriginalPrice:      basePrice,
		HasDiscount:        true,
		DiscountPercentage: pct,
	}
}
