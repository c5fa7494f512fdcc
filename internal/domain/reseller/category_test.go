package reseller

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTenantID = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func TestNewResellerCategory(t *testing.T) {
	tiers := []TierDiscount{
		{MinimumQuantity: 10, Discount: decimal.NewFromInt(5), CategoryProduct: AllCategories()},
		{MinimumQuantity: 50, Discount: decimal.NewFromInt(12), CategoryProduct: AllCategories()},
	}

	t.Run("creates category with normalized currency", func(t *testing.T) {
		c, err := NewResellerCategory(testTenantID, "Gold", "usd", tiers)
		require.NoError(t, err)
		assert.Equal(t, valueobject.USD, c.Currency)
		assert.Len(t, c.Tiers, 2)
		assert.Equal(t, 10, c.Tiers[0].MinimumQuantity)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeResellerCategoryCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewResellerCategory(testTenantID, "Gold", "XYZQ", tiers)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_CURRENCY", de.Code)
	})

	t.Run("rejects tier discount above 100", func(t *testing.T) {
		_, err := NewResellerCategory(testTenantID, "Gold", "IDR", []TierDiscount{
			{MinimumQuantity: 1, Discount: decimal.NewFromInt(101), CategoryProduct: AllCategories()},
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative minimum quantity", func(t *testing.T) {
		_, err := NewResellerCategory(testTenantID, "Gold", "IDR", []TierDiscount{
			{MinimumQuantity: -1, Discount: decimal.NewFromInt(1), CategoryProduct: AllCategories()},
		})
		assert.Error(t, err)
	})

	t.Run("rejects empty scope", func(t *testing.T) {
		_, err := NewResellerCategory(testTenantID, "Gold", "IDR", []TierDiscount{
			{MinimumQuantity: 1, Discount: decimal.NewFromInt(1)},
		})
		assert.Error(t, err)
	})

	t.Run("tiers are copied", func(t *testing.T) {
		input := append([]TierDiscount(nil), tiers...)
		c, err := NewResellerCategory(testTenantID, "Gold", "IDR", input)
		require.NoError(t, err)
		input[0].MinimumQuantity = 999
		assert.Equal(t, 10, c.Tiers[0].MinimumQuantity)
	})
}

func TestResellerCategory_Mutations(t *testing.T) {
	c, err := NewResellerCategory(testTenantID, "Silver", "IDR", nil)
	require.NoError(t, err)

	require.NoError(t, c.ChangeCurrency("sgd"))
	assert.Equal(t, valueobject.SGD, c.Currency)

	require.NoError(t, c.ReplaceTiers([]TierDiscount{
		{MinimumQuantity: 0, Discount: decimal.NewFromInt(3), CategoryProduct: AllCategories()},
	}))
	assert.Len(t, c.Tiers, 1)

	require.NoError(t, c.Rename("Silver Plus"))
	assert.Equal(t, "Silver Plus", c.Name)

	require.NoError(t, c.SoftDelete())
	assert.True(t, c.IsSoftDeleted())
	assert.Error(t, c.Rename("Other"))
	assert.Error(t, c.ChangeCurrency("USD"))
	assert.Error(t, c.SoftDelete())
}

func TestCategoryScope(t *testing.T) {
	dogFood := uuid.New()
	catToys := uuid.New()

	t.Run("includes", func(t *testing.T) {
		assert.True(t, AllCategories().Includes(dogFood))
		assert.True(t, CategoriesOf(dogFood).Includes(dogFood))
		assert.False(t, CategoriesOf(dogFood).Includes(catToys))
		assert.False(t, CategoryScope{}.Includes(dogFood))
	})

	t.Run("json all", func(t *testing.T) {
		var s CategoryScope
		require.NoError(t, json.Unmarshal([]byte(`"ALL"`), &s))
		assert.True(t, s.All)

		out, err := json.Marshal(AllCategories())
		require.NoError(t, err)
		assert.Equal(t, `"all"`, string(out))
	})

	t.Run("json ids", func(t *testing.T) {
		var s CategoryScope
		raw := `["` + dogFood.String() + `","` + catToys.String() + `"]`
		require.NoError(t, json.Unmarshal([]byte(raw), &s))
		assert.False(t, s.All)
		assert.Equal(t, []uuid.UUID{dogFood, catToys}, s.CategoryIDs)

		out, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})

	t.Run("json null means all", func(t *testing.T) {
		var tier TierDiscount
		require.NoError(t, json.Unmarshal([]byte(`{"minimum_quantity":5,"discount":"7.5","category_product":null}`), &tier))
		assert.True(t, tier.CategoryProduct.All)
		assert.True(t, tier.Discount.Equal(decimal.RequireFromString("7.5")))
	})

	t.Run("json rejects other strings", func(t *testing.T) {
		var s CategoryScope
		assert.Error(t, json.Unmarshal([]byte(`"some"`), &s))
		assert.Error(t, json.Unmarshal([]byte(`42`), &s))
	})
}
