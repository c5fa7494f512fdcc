package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
)

// IsPromotionActive reports whether the campaign flag is on and now falls
// within [StartDate, EndDate]. Both ends are inclusive.
func IsPromotionActive(p *promotion.Promotion, now time.Time) bool {
	if p == nil || !p.IsActive || p.IsDeleted {
		return false
	}
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// PromoMatch is the variant override found for a product variant together
// with the campaign that owns it.
type PromoMatch struct {
	Promotion *promotion.Promotion
	Variant   *promotion.PromotionVariant
}

// FindActivePromoForVariant scans promotions in the given order and returns
// the first active campaign listing the variant with its own flag on.
//
// Callers must pass promotions newest-first; the first match wins and the
// list is never re-sorted here.
func FindActivePromoForVariant(productID, variantID uuid.UUID, promotions []promotion.Promotion, now time.Time) (PromoMatch, bool) {
	for i := range promotions {
		p := &promotions[i]
		if !IsPromotionActive(p, now) {
			continue
		}
		for j := range p.Products {
			prod := &p.Products[j]
			if prod.ProductID != productID {
				continue
			}
			for k := range prod.Variants {
				v := &prod.Variants[k]
				if v.VariantID == variantID && v.IsActive {
					return PromoMatch{Promotion: p, Variant: v}, true
				}
			}
		}
	}
	return PromoMatch{}, false
}
