package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTierPolicy(t *testing.T) {
	p, err := ParseTierPolicy("")
	require.NoError(t, err)
	assert.Equal(t, TierPolicyHighestThreshold, p)

	p, err = ParseTierPolicy("first_qualifying")
	require.NoError(t, err)
	assert.Equal(t, TierPolicyFirstQualifying, p)

	_, err = ParseTierPolicy("best_discount")
	assert.Error(t, err)
}

func TestSelectTier_HighestThreshold(t *testing.T) {
	dogFood := uuid.New()
	catLitter := uuid.New()

	tiers := []reseller.TierDiscount{
		{MinimumQuantity: 10, Discount: dec(5), CategoryProduct: reseller.AllCategories()},
		{MinimumQuantity: 100, Discount: dec(15), CategoryProduct: reseller.AllCategories()},
		{MinimumQuantity: 50, Discount: dec(10), CategoryProduct: reseller.AllCategories()},
		{MinimumQuantity: 20, Discount: dec(30), CategoryProduct: reseller.CategoriesOf(catLitter)},
	}

	tests := []struct {
		name     string
		qty      int
		category uuid.UUID
		wantMin  int
		wantOK   bool
	}{
		{"below every threshold", 9, dogFood, 0, false},
		{"exactly at first threshold", 10, dogFood, 10, true},
		{"between thresholds ignores list order", 75, dogFood, 50, true},
		{"above all thresholds", 500, dogFood, 100, true},
		{"scoped tier applies to its category", 25, catLitter, 20, true},
		{"scoped tier ignored for other category", 25, dogFood, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectTier(tiers, tt.qty, tt.category, TierPolicyHighestThreshold)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantMin, got.MinimumQuantity)
			}
		})
	}

	t.Run("ties broken by list order", func(t *testing.T) {
		tied := []reseller.TierDiscount{
			{MinimumQuantity: 10, Discount: dec(5), CategoryProduct: reseller.AllCategories()},
			{MinimumQuantity: 10, Discount: dec(8), CategoryProduct: reseller.AllCategories()},
		}
		got, ok := SelectTier(tied, 12, dogFood, TierPolicyHighestThreshold)
		require.True(t, ok)
		assert.True(t, got.Discount.Equal(dec(5)))
	})

	t.Run("higher discount does not win over higher threshold", func(t *testing.T) {
		got, ok := SelectTier(tiers, 30, catLitter, TierPolicyHighestThreshold)
		require.True(t, ok)
		assert.Equal(t, 20, got.MinimumQuantity)

		got, ok = SelectTier(tiers, 60, catLitter, TierPolicyHighestThreshold)
		require.True(t, ok)
		assert.Equal(t, 50, got.MinimumQuantity)
		assert.True(t, got.Discount.Equal(dec(10)))
	})

	t.Run("zero minimum qualifies any order", func(t *testing.T) {
		base := []reseller.TierDiscount{{MinimumQuantity: 0, Discount: dec(2), CategoryProduct: reseller.AllCategories()}}
		_, ok := SelectTier(base, 0, dogFood, TierPolicyHighestThreshold)
		assert.True(t, ok)
	})

	t.Run("no tiers", func(t *testing.T) {
		_, ok := SelectTier(nil, 10, dogFood, TierPolicyHighestThreshold)
		assert.False(t, ok)
	})
}

func TestSelectTier_FirstQualifying(t *testing.T) {
	category := uuid.New()
	tiers := []reseller.TierDiscount{
		{MinimumQuantity: 10, Discount: dec(5), CategoryProduct: reseller.AllCategories()},
		{MinimumQuantity: 50, Discount: dec(10), CategoryProduct: reseller.AllCategories()},
	}

	got, ok := SelectTier(tiers, 75, category, TierPolicyFirstQualifying)
	require.True(t, ok)
	assert.Equal(t, 10, got.MinimumQuantity)

	_, ok = SelectTier(tiers, 5, category, TierPolicyFirstQualifying)
	assert.False(t, ok)
}

func TestResolveResellerPrice(t *testing.T) {
	t.Run("applies tier discount with currency rounding", func(t *testing.T) {
		tier := reseller.TierDiscount{MinimumQuantity: 10, Discount: decimal.RequireFromString("7.5")}
		got := ResolveResellerPrice(dec(99999), valueobject.IDR, &tier)
		// 99999 * 0.925 = 92499.075
		assert.True(t, got.FinalPrice.Equal(dec(92499)), got.FinalPrice.String())
		assert.True(t, got.OriginalPrice.Equal(dec(99999)))
		assert.True(t, got.HasDiscount)
		assert.True(t, got.DiscountPercentage.Equal(decimal.RequireFromString("7.5")))
	})

	t.Run("nil tier returns base", func(t *testing.T) {
		got := ResolveResellerPrice(dec(1000), valueobject.IDR, nil)
		assert.False(t, got.HasDiscount)
		assert.True(t, got.FinalPrice.Equal(dec(1000)))
	})

	t.Run("zero discount returns base", func(t *testing.T) {
		tier := reseller.TierDiscount{Discount: decimal.Zero}
		got := ResolveResellerPrice(dec(1000), valueobject.IDR, &tier)
		assert.False(t, got.HasDiscount)
	})

	t.Run("discount rounding to nothing returns base", func(t *testing.T) {
		tier := reseller.TierDiscount{Discount: decimal.RequireFromString("0.1")}
		got := ResolveResellerPrice(dec(1), valueobject.IDR, &tier)
		assert.False(t, got.HasDiscount)
		assert.True(t, got.FinalPrice.Equal(dec(1)))
	})
}

func TestResolver(t *testing.T) {
	fixed := func() time.Time { return midWindow }
	productID := uuid.New()
	variantID := uuid.New()
	promos := []promotion.Promotion{promoFor(productID, variantID,
		valueobject.CurrencyPrices{valueobject.IDR: dec(150000)},
		valueobject.CurrencyPrices{valueobject.IDR: dec(25)},
	)}

	t.Run("uses injected clock", func(t *testing.T) {
		r := NewResolver(WithClock(fixed))
		assert.Equal(t, midWindow, r.Now())
		got := r.FinalPrice(dec(200000), valueobject.IDR, productID, variantID, promos, false)
		assert.True(t, got.HasDiscount)

		late := NewResolver(WithClock(func() time.Time { return windowEnd.Add(time.Hour) }))
		got = late.FinalPrice(dec(200000), valueobject.IDR, productID, variantID, promos, false)
		assert.False(t, got.HasDiscount)
	})

	t.Run("product min price", func(t *testing.T) {
		r := NewResolver(WithClock(fixed))
		got := r.ProductMinPrice([]PricedVariant{
			{VariantID: variantID, Price: valueobject.CurrencyPrices{valueobject.IDR: dec(200000)}},
		}, productID, valueobject.IDR, promos, false)
		assert.True(t, got.MinPrice.Equal(dec(150000)))
	})

	t.Run("reseller price follows configured policy", func(t *testing.T) {
		tiers := []reseller.TierDiscount{
			{MinimumQuantity: 10, Discount: dec(5), CategoryProduct: reseller.AllCategories()},
			{MinimumQuantity: 50, Discount: dec(10), CategoryProduct: reseller.AllCategories()},
		}

		highest := NewResolver(WithClock(fixed))
		assert.Equal(t, TierPolicyHighestThreshold, highest.TierPolicy())
		price, tier := highest.ResellerPrice(dec(100000), valueobject.IDR, tiers, 60, uuid.New())
		require.NotNil(t, tier)
		assert.Equal(t, 50, tier.MinimumQuantity)
		assert.True(t, price.FinalPrice.Equal(dec(90000)))

		first := NewResolver(WithClock(fixed), WithTierPolicy(TierPolicyFirstQualifying))
		price, tier = first.ResellerPrice(dec(100000), valueobject.IDR, tiers, 60, uuid.New())
		require.NotNil(t, tier)
		assert.Equal(t, 10, tier.MinimumQuantity)
		assert.True(t, price.FinalPrice.Equal(dec(95000)))

		price, tier = first.ResellerPrice(dec(100000), valueobject.IDR, tiers, 1, uuid.New())
		assert.Nil(t, tier)
		assert.False(t, price.HasDiscount)
	})
}
