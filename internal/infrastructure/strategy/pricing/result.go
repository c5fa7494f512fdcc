package pricing

import (
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// toResult expands a per-unit resolution into a line result
func toResult(resolved domainpricing.ResolvedPrice, pricingCtx strategy.PricingContext, rule string) strategy.PricingResult {
	qty := decimal.NewFromInt(int64(pricingCtx.Quantity))
	total := resolved.FinalPrice.Mul(qty)
	originalTotal := resolved.OriginalPrice.Mul(qty)

	rules := []string{}
	if resolved.HasDiscount {
		rules = append(rules, rule)
	}

	return strategy.PricingResult{
		UnitPrice:         resolved.FinalPrice,
		OriginalUnitPrice: resolved.OriginalPrice,
		TotalPrice:        total,
		DiscountAmount:    originalTotal.Sub(total),
		DiscountPercent:   resolved.DiscountPercentage,
		HasDiscount:       resolved.HasDiscount,
		Currency:          pricingCtx.Currency,
		AppliedRules:      rules,
	}
}
