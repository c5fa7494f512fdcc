//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	orderapp "github.com/petshop/backend/internal/application/order"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/domain/catalog"
	domainidentity "github.com/petshop/backend/internal/domain/identity"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/petshop/backend/internal/infrastructure/persistence"
	infrastrategy "github.com/petshop/backend/internal/infrastructure/strategy"
	strategypricing "github.com/petshop/backend/internal/infrastructure/strategy/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tdb       *TestDB
	tenantID  uuid.UUID
	products  *persistence.GormProductRepository
	promos    *persistence.GormPromotionRepository
	product   *catalog.Product
	variantID uuid.UUID
	buyers    []*domainidentity.User
}

func newFixture(t *testing.T, stock int, buyers int) *fixture {
	t.Helper()
	ctx := context.Background()
	tdb := NewTestDB(t)
	f := &fixture{
		tdb:      tdb,
		tenantID: uuid.New(),
		products: persistence.NewGormProductRepository(tdb.DB),
		promos:   persistence.NewGormPromotionRepository(tdb.DB),
	}

	category, err := catalog.NewCategory(f.tenantID, "Cat Litter", "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCategoryRepository(tdb.DB).Save(ctx, category))

	f.product, err = catalog.NewProduct(f.tenantID, "Clumping Litter", "", category.ID, []catalog.VariantInput{
		{SKU: "LIT-10L", Name: "10L", Stock: stock, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(120000),
		}},
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Save(ctx, f.product))
	f.variantID = f.product.Variants[0].ID

	users := persistence.NewGormUserRepository(tdb.DB)
	for i := 0; i < buyers; i++ {
		u, err := domainidentity.NewUser(f.tenantID, uuid.NewString()+"@example.com", "Buyer", "password123", domainidentity.RoleCustomer)
		require.NoError(t, err)
		require.NoError(t, users.Save(ctx, u))
		f.buyers = append(f.buyers, u)
	}
	return f
}

func (f *fixture) promotion(t *testing.T, name string, pct int64, start, end time.Time, active bool) *promotion.Promotion {
	t.Helper()
	p, err := promotion.NewPromotion(f.tenantID, name, "", start, end, active, []promotion.ProductInput{{
		ProductID: f.product.ID,
		Variants: []promotion.VariantInput{{
			VariantID:          f.variantID,
			OriginalPrice:      valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(120000)},
			DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(pct)},
			IsActive:           true,
		}},
	}})
	require.NoError(t, err)
	require.NoError(t, f.promos.Save(context.Background(), p))
	return p
}

func TestPromotionRepository_FindActiveAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5, 0)
	now := time.Now().UTC().Truncate(time.Second)

	older := f.promotion(t, "Older", 10, now.Add(-time.Hour), now.Add(time.Hour), true)
	time.Sleep(10 * time.Millisecond)
	newer := f.promotion(t, "Newer", 20, now.Add(-time.Hour), now.Add(time.Hour), true)
	f.promotion(t, "Paused", 50, now.Add(-time.Hour), now.Add(time.Hour), false)
	f.promotion(t, "Expired", 50, now.Add(-3*time.Hour), now.Add(-2*time.Hour), true)
	deleted := f.promotion(t, "Deleted", 50, now.Add(-time.Hour), now.Add(time.Hour), true)
	require.NoError(t, deleted.SoftDelete())
	require.NoError(t, f.promos.Save(ctx, deleted))

	active, err := f.promos.FindActiveAt(ctx, f.tenantID, now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID, "newest first")
	assert.Equal(t, older.ID, active[1].ID)

	other, err := f.promos.FindActiveAt(ctx, uuid.New(), now)
	require.NoError(t, err)
	assert.Empty(t, other)

	resolved := domainpricing.NewResolver(domainpricing.WithClock(func() time.Time { return now })).
		FinalPrice(decimal.NewFromInt(120000), valueobject.IDR, f.product.ID, f.variantID, active, false)
	assert.True(t, resolved.FinalPrice.Equal(decimal.NewFromInt(96000)), "newest promotion wins")
}

func TestOrderService_ConcurrentOrdersForLastUnits(t *testing.T) {
	const buyers = 5
	f := newFixture(t, 2, buyers)
	tdb := f.tdb

	source := pricingapp.NewActivePromotionSource(f.promos)
	registry, err := infrastrategy.NewRegistryWithProvider(
		strategypricing.NewRepositoryResellerCategoryProvider(persistence.NewGormResellerCategoryRepository(tdb.DB)),
		domainpricing.TierPolicyHighestThreshold)
	require.NoError(t, err)
	service := orderapp.NewOrderService(persistence.NewGormOrderRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB), registry, source, nil, nil, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		shortage int
	)
	for _, buyer := range f.buyers {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := service.PlaceDirectOrder(context.Background(), &pricingapp.Viewer{
				TenantID: f.tenantID,
				UserID:   &userID,
				Currency: valueobject.IDR,
			}, orderapp.PlaceOrderRequest{Items: []orderapp.OrderLineRequest{
				{ProductID: f.product.ID, VariantID: f.variantID, Quantity: 1},
			}})
			mu.Lock()
			defer mu.Unlock()
			var de *shared.DomainError
			switch {
			case err == nil:
				placed++
			case assert.ErrorAs(t, err, &de) && de.Code == "INSUFFICIENT_STOCK":
				shortage++
			}
		}(buyer.ID)
	}
	wg.Wait()

	assert.Equal(t, 2, placed)
	assert.Equal(t, buyers-2, shortage)

	p, err := f.products.FindByIDForTenant(context.Background(), f.tenantID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Variants[0].Stock)
}
