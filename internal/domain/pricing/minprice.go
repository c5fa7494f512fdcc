package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricedVariant is the minimum a listing needs to know about a variant
type PricedVariant struct {
	VariantID uuid.UUID
	Price     valueobject.CurrencyPrices
}

// ProductMinPrice is the representative price of a multi-variant product.
//
// MinOriginalPrice follows the cheapest variant only: it is nil unless that
// variant is discounted. HasDiscount and MaxDiscountPercentage look at every
// variant, so HasDiscount may be true while MinOriginalPrice is nil.
type ProductMinPrice struct {
	MinPrice              decimal.Decimal  `json:"min_price"`
	MinOriginalPrice      *decimal.Decimal `json:"min_original_price"`
	HasDiscount           bool             `json:"has_discount"`
	MaxDiscountPercentage decimal.Decimal  `json:"max_discount_percentage"`
}

// GetProductMinPrice resolves every variant priced in currency and returns
// the cheapest final price for catalog display. Variants without a price in
// currency are skipped; a product with none yields a zero MinPrice.
func GetProductMinPrice(
	variants []PricedVariant,
	productID uuid.UUID,
	currency valueobject.Currency,
	promotions []promotion.Promotion,
	isReseller bool,
	now time.Time,
) ProductMinPrice {
	var (
		found       bool
		minPrice    decimal.Decimal
		minOriginal *decimal.Decimal
		hasDiscount bool
		maxPct      = decimal.Zero
	)

	for _, v := range variants {
		base, ok := v.Price.Get(currency)
		if !ok {
			continue
		}
		r := ResolveFinalPrice(base, currency, productID, v.VariantID, promotions, isReseller, now)

		// cheapest-variant tracking
		if !found || r.FinalPrice.LessThan(minPrice) {
			found = true
			minPrice = r.FinalPrice
			if r.HasDiscount {
				orig := r.OriginalPrice
				minOriginal = &orig
			} else {
				minOriginal = nil
			}
		}

		// discount badge tracking, independent of the cheapest variant
		if r.HasDiscount {
			hasDiscount = true
			if r.DiscountPercentage.GreaterThan(maxPct) {
				maxPct = r.DiscountPercentage
			}
		}
	}

	if !found {
		return ProductMinPrice{
			MinPrice:              decimal.Zero,
			MinOriginalPrice:      nil,
			HasDiscount:           hasDiscount,
			MaxDiscountPercentage: maxPct,
		}
	}
	return ProductMinPrice{
		MinPrice:              minPrice,
		MinOriginalPrice:      minOriginal,
		HasDiscount:           hasDiscount,
		MaxDiscountPercentage: maxPct,
	}
}
