package models

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

func TestPromotionModel_KeepsProductGrouping(t *testing.T) {
	tenantID := uuid.New()
	dogFood, catLitter := uuid.New(), uuid.New()
	small, large, bag := uuid.New(), uuid.New(), uuid.New()

	p, err := promotion.NewPromotion(tenantID, "Payday", "",
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
		true,
		[]promotion.ProductInput{
			{ProductID: dogFood, Variants: []promotion.VariantInput{
				{VariantID: small, OriginalPrice: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(50000)},
					DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(10)}, IsActive: true},
				{VariantID: large, OriginalPrice: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(90000)},
					DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(20)}, IsActive: false},
			}},
			{ProductID: catLitter, Variants: []promotion.VariantInput{
				{VariantID: bag, OriginalPrice: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(30000)},
					DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(5)}, IsActive: true},
			}},
		})
	require.NoError(t, err)

	m := PromotionModelFromDomain(p)
	require.Len(t, m.Variants, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{m.Variants[0].Position, m.Variants[1].Position, m.Variants[2].Position})

	// rows come back from the database in arbitrary order
	m.Variants[0], m.Variants[2] = m.Variants[2], m.Variants[0]

	got := m.ToDomain()
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, tenantID, got.TenantID)
	require.Len(t, got.Products, 2)
	assert.Equal(t, dogFood, got.Products[0].ProductID)
	require.Len(t, got.Products[0].Variants, 2)
	assert.Equal(t, small, got.Products[0].Variants[0].VariantID)
	assert.False(t, got.Products[0].Variants[1].IsActive)
	assert.True(t, got.Products[0].Variants[1].DiscountedPrice[valueobject.IDR].Equal(decimal.NewFromInt(72000)))
	assert.Equal(t, catLitter, got.Products[1].ProductID)
}

func TestTierList_ValueScan(t *testing.T) {
	scope := uuid.New()
	tiers := TierList{
		{MinimumQuantity: 10, Discount: decimal.RequireFromString("7.5"), CategoryProduct: reseller.AllCategories()},
		{MinimumQuantity: 50, Discount: decimal.NewFromInt(12), CategoryProduct: reseller.CategoriesOf(scope)},
	}

	raw, err := tiers.Value()
	require.NoError(t, err)

	var back TierList
	require.NoError(t, back.Scan([]byte(raw.(string))))
	require.Len(t, back, 2)
	assert.True(t, back[0].CategoryProduct.All)
	assert.Equal(t, []uuid.UUID{scope}, back[1].CategoryProduct.CategoryIDs)
	assert.True(t, back[0].Discount.Equal(decimal.RequireFromString("7.5")))

	var empty TierList
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
	assert.Error(t, empty.Scan(42))

	nilValue, err := TierList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)
}
