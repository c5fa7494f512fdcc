package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/domain/catalog"
	domainorder "github.com/petshop/backend/internal/domain/order"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	infrastrategy "github.com/petshop/backend/internal/infrastructure/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	testNow      = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
)

// MockStockRepository is a mock implementation of StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) LockByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockStockRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domainorder.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainorder.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]domainorder.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainorder.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *domainorder.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockPromotionLoader is a mock implementation of PromotionLoader
type MockPromotionLoader struct {
	mock.Mock
}

func (m *MockPromotionLoader) Load(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]promotion.Promotion, error) {
	args := m.Called(ctx, tenantID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]promotion.Promotion), args.Error(1)
}

// staticCategories serves reseller categories from a map
type staticCategories map[uuid.UUID]*reseller.ResellerCategory

func (s staticCategories) GetResellerCategory(_ context.Context, _, id uuid.UUID) (*reseller.ResellerCategory, error) {
	c, ok := s[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

type orderFixture struct {
	service    *OrderService
	stock      *MockStockRepository
	orders     *MockOrderRepository
	promotions *MockPromotionLoader
	categories staticCategories
	catalogCat uuid.UUID
	product    *catalog.Product
	small      catalog.Variant
	large      catalog.Variant
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		stock:      new(MockStockRepository),
		orders:     new(MockOrderRepository),
		promotions: new(MockPromotionLoader),
		categories: staticCategories{},
		catalogCat: uuid.New(),
	}

	product, err := catalog.NewProduct(testTenantID, "Salmon Kibble", "", f.catalogCat, []catalog.VariantInput{
		{SKU: "KIB-1KG", Name: "1kg", Stock: 10, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(100000),
		}},
		{SKU: "KIB-5KG", Name: "5kg", Stock: 4, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(400000),
			valueobject.USD: decimal.RequireFromString("25.00"),
		}},
	})
	require.NoError(t, err)
	f.product = product
	f.small = product.Variants[0]
	f.large = product.Variants[1]

	registry, err := infrastrategy.NewRegistryWithProvider(f.categories, domainpricing.TierPolicyHighestThreshold)
	require.NoError(t, err)

	scope := NewNoOpTransactionScope(f.stock, f.orders)
	f.service = NewOrderService(f.orders, scope, registry, f.promotions, func() time.Time { return testNow }, nil, nil)
	return f
}

// lockedCopy hands the service a product with its own variant slice so
// stock changes are observable through Save.
func (f *orderFixture) lockedCopy() []catalog.Product {
	p := *f.product
	p.Variants = append([]catalog.Variant(nil), f.product.Variants...)
	return []catalog.Product{p}
}

func (f *orderFixture) flashSale(t *testing.T) promotion.Promotion {
	t.Helper()
	p, err := promotion.NewPromotion(testTenantID, "Flash Sale", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), true,
		[]promotion.ProductInput{{
			ProductID: f.product.ID,
			Variants: []promotion.VariantInput{{
				VariantID:          f.large.ID,
				OriginalPrice:      valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(400000)},
				DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(25)},
				IsActive:           true,
			}},
		}})
	require.NoError(t, err)
	return *p
}

func retailViewer(userID uuid.UUID) *pricing.Viewer {
	return &pricing.Viewer{TenantID: testTenantID, UserID: &userID, Currency: valueobject.IDR}
}

func stockOf(p *catalog.Product, variantID uuid.UUID) int {
	v, _ := p.FindVariant(variantID)
	return v.Stock
}

func TestOrderService_PlaceDirectOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("retail order applies promotions and merges lines", func(t *testing.T) {
		f := newOrderFixture(t)
		userID := uuid.New()
		f.promotions.On("Load", mock.Anything, testTenantID, testNow).Return([]promotion.Promotion{f.flashSale(t)}, nil)
		f.stock.On("LockByIDs", mock.Anything, testTenantID, []uuid.UUID{f.product.ID}).Return(f.lockedCopy(), nil)

		var saved *catalog.Product
		f.stock.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*catalog.Product) }).
			Return(nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		resp, err := f.service.PlaceDirectOrder(ctx, retailViewer(userID), PlaceOrderRequest{
			Items: []OrderLineRequest{
				{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 1},
				{ProductID: f.product.ID, VariantID: f.large.ID, Quantity: 2},
				{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 2},
			},
			Note: "leave at the door",
		})
		require.NoError(t, err)

		assert.Equal(t, string(domainorder.PricingModePromotion), resp.PricingMode)
		assert.Equal(t, string(domainorder.StatusPending), resp.Status)
		assert.Equal(t, userID, resp.UserID)
		require.Len(t, resp.Items, 2)

		assert.Equal(t, 3, resp.Items[0].Quantity)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(100000)))
		assert.Empty(t, resp.Items[0].AppliedRule)

		assert.True(t, resp.Items[1].UnitPrice.Equal(decimal.NewFromInt(300000)))
		assert.True(t, resp.Items[1].OriginalUnitPrice.Equal(decimal.NewFromInt(400000)))
		assert.Equal(t, "promotion", resp.Items[1].AppliedRule)

		// 3*100000 + 2*300000
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(900000)), resp.Total.String())
		assert.True(t, resp.Discount.Equal(decimal.NewFromInt(200000)), resp.Discount.String())

		require.NotNil(t, saved)
		assert.Equal(t, 7, stockOf(saved, f.small.ID))
		assert.Equal(t, 2, stockOf(saved, f.large.ID))
		f.orders.AssertExpectations(t)
	})

	t.Run("reseller order uses tiers and skips promotions", func(t *testing.T) {
		f := newOrderFixture(t)
		category, err := reseller.NewResellerCategory(testTenantID, "Gold", "IDR", []reseller.TierDiscount{
			{MinimumQuantity: 3, Discount: decimal.NewFromInt(10), CategoryProduct: reseller.CategoriesOf(f.catalogCat)},
		})
		require.NoError(t, err)
		f.categories[category.ID] = category

		userID := uuid.New()
		viewer := &pricing.Viewer{TenantID: testTenantID, UserID: &userID, IsReseller: true, ResellerCategory: category, Currency: valueobject.IDR}
		f.stock.On("LockByIDs", mock.Anything, testTenantID, mock.Anything).Return(f.lockedCopy(), nil)
		f.stock.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.PlaceDirectOrder(ctx, viewer, PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.large.ID, Quantity: 3},
		}})
		require.NoError(t, err)

		assert.Equal(t, string(domainorder.PricingModeResellerTier), resp.PricingMode)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(360000)))
		assert.Equal(t, "reseller_tier:highest_threshold", resp.Items[0].AppliedRule)
		f.promotions.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reseller order prices from the viewer's loaded category", func(t *testing.T) {
		f := newOrderFixture(t)
		category, err := reseller.NewResellerCategory(testTenantID, "Silver", "IDR", []reseller.TierDiscount{
			{MinimumQuantity: 1, Discount: decimal.NewFromInt(5), CategoryProduct: reseller.AllCategories()},
		})
		require.NoError(t, err)
		// not registered with the provider: a lookup inside the transaction
		// would fail with not found

		userID := uuid.New()
		viewer := &pricing.Viewer{TenantID: testTenantID, UserID: &userID, IsReseller: true, ResellerCategory: category, Currency: valueobject.IDR}
		f.stock.On("LockByIDs", mock.Anything, testTenantID, mock.Anything).Return(f.lockedCopy(), nil)
		f.stock.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.PlaceDirectOrder(ctx, viewer, PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 2},
		}})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(95000)), resp.Items[0].UnitPrice.String())
	})

	t.Run("reseller viewer without a category", func(t *testing.T) {
		f := newOrderFixture(t)
		userID := uuid.New()
		viewer := &pricing.Viewer{TenantID: testTenantID, UserID: &userID, IsReseller: true, Currency: valueobject.IDR}

		_, err := f.service.PlaceDirectOrder(ctx, viewer, PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 1},
		}})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.stock.AssertNotCalled(t, "LockByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous viewer is rejected", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.service.PlaceDirectOrder(ctx, &pricing.Viewer{TenantID: testTenantID, Currency: valueobject.IDR}, PlaceOrderRequest{})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("empty order", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.service.PlaceDirectOrder(ctx, retailViewer(uuid.New()), PlaceOrderRequest{})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
	})

	t.Run("insufficient stock saves nothing", func(t *testing.T) {
		f := newOrderFixture(t)
		f.promotions.On("Load", mock.Anything, testTenantID, testNow).Return([]promotion.Promotion{}, nil)
		f.stock.On("LockByIDs", mock.Anything, testTenantID, mock.Anything).Return(f.lockedCopy(), nil)

		_, err := f.service.PlaceDirectOrder(ctx, retailViewer(uuid.New()), PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.large.ID, Quantity: 3},
			{ProductID: f.product.ID, VariantID: f.large.ID, Quantity: 2},
		}})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("variant without price in viewer currency", func(t *testing.T) {
		f := newOrderFixture(t)
		userID := uuid.New()
		viewer := &pricing.Viewer{TenantID: testTenantID, UserID: &userID, Currency: valueobject.USD}
		f.promotions.On("Load", mock.Anything, testTenantID, testNow).Return([]promotion.Promotion{}, nil)
		f.stock.On("LockByIDs", mock.Anything, testTenantID, mock.Anything).Return(f.lockedCopy(), nil)

		_, err := f.service.PlaceDirectOrder(ctx, viewer, PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 1},
		}})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "PRICE_UNAVAILABLE", domainErr.Code)
	})

	t.Run("inactive product is not found", func(t *testing.T) {
		f := newOrderFixture(t)
		f.promotions.On("Load", mock.Anything, testTenantID, testNow).Return([]promotion.Promotion{}, nil)
		locked := f.lockedCopy()
		require.NoError(t, locked[0].Deactivate())
		f.stock.On("LockByIDs", mock.Anything, testTenantID, mock.Anything).Return(locked, nil)

		_, err := f.service.PlaceDirectOrder(ctx, retailViewer(uuid.New()), PlaceOrderRequest{Items: []OrderLineRequest{
			{ProductID: f.product.ID, VariantID: f.small.ID, Quantity: 1},
		}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func placedOrder(t *testing.T, f *orderFixture, userID uuid.UUID) *domainorder.Order {
	t.Helper()
	o, err := domainorder.NewOrder(testTenantID, userID, valueobject.IDR, domainorder.PricingModePromotion, []domainorder.ItemInput{{
		ProductID:         f.product.ID,
		VariantID:         f.large.ID,
		ProductName:       "Salmon Kibble - 5kg",
		SKU:               f.large.SKU,
		Quantity:          2,
		UnitPrice:         decimal.NewFromInt(400000),
		OriginalUnitPrice: decimal.NewFromInt(400000),
	}}, "")
	require.NoError(t, err)
	return o
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel restores stock", func(t *testing.T) {
		f := newOrderFixture(t)
		o := placedOrder(t, f, uuid.New())
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)
		f.stock.On("LockByIDs", mock.Anything, testTenantID, []uuid.UUID{f.product.ID}).Return(f.lockedCopy(), nil)

		var saved *catalog.Product
		f.stock.On("Save", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*catalog.Product) }).
			Return(nil)
		f.orders.On("Save", mock.Anything, o).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, testTenantID, o.ID, UpdateStatusRequest{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.NotNil(t, resp.CancelledAt)
		require.NotNil(t, saved)
		assert.Equal(t, 6, stockOf(saved, f.large.ID))
	})

	t.Run("paid does not touch stock", func(t *testing.T) {
		f := newOrderFixture(t)
		o := placedOrder(t, f, uuid.New())
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)
		f.orders.On("Save", mock.Anything, o).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, testTenantID, o.ID, UpdateStatusRequest{Status: "paid"})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		f.stock.AssertNotCalled(t, "LockByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newOrderFixture(t)
		o := placedOrder(t, f, uuid.New())
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)

		_, err := f.service.UpdateStatus(ctx, testTenantID, o.ID, UpdateStatusRequest{Status: "shipped"})
		require.Error(t, err)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads own order", func(t *testing.T) {
		f := newOrderFixture(t)
		owner := uuid.New()
		o := placedOrder(t, f, owner)
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)

		resp, err := f.service.GetByID(ctx, testTenantID, Requester{UserID: owner}, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	})

	t.Run("other customer gets not found", func(t *testing.T) {
		f := newOrderFixture(t)
		o := placedOrder(t, f, uuid.New())
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)

		_, err := f.service.GetByID(ctx, testTenantID, Requester{UserID: uuid.New()}, o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		f := newOrderFixture(t)
		o := placedOrder(t, f, uuid.New())
		f.orders.On("FindByIDForTenant", mock.Anything, testTenantID, o.ID).Return(o, nil)

		_, err := f.service.GetByID(ctx, testTenantID, Requester{UserID: uuid.New(), IsAdmin: true}, o.ID)
		assert.NoError(t, err)
	})

	t.Run("list is scoped to the customer", func(t *testing.T) {
		f := newOrderFixture(t)
		owner := uuid.New()
		o := placedOrder(t, f, owner)
		scoped := mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["user_id"] == owner && filter.Filters["status"] == domainorder.StatusPending
		})
		f.orders.On("FindAllForTenant", mock.Anything, testTenantID, scoped).Return([]domainorder.Order{*o}, nil)
		f.orders.On("CountForTenant", mock.Anything, testTenantID, scoped).Return(int64(1), nil)

		got, total, err := f.service.List(ctx, testTenantID, Requester{UserID: owner}, OrderListFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, o.ID, got[0].ID)
	})
}
