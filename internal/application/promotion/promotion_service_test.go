package promotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("77777777-7777-7777-7777-777777777777")
	testNow      = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
)

// MockPromotionRepository is a mock implementation of promotion.PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*promotion.Promotion, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]promotion.Promotion, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromotionRepository) FindActiveAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]promotion.Promotion, error) {
	args := m.Called(ctx, tenantID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository.
// Only FindByIDs is used by the promotion service.
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockSnapshotInvalidator is a mock implementation of SnapshotInvalidator
type MockSnapshotInvalidator struct {
	mock.Mock
}

func (m *MockSnapshotInvalidator) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type recordingPublisher struct {
	types []string
}

func (r *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		r.types = append(r.types, e.EventType())
	}
	return nil
}

type promotionFixture struct {
	service    *PromotionService
	promos     *MockPromotionRepository
	products   *MockProductRepository
	snapshots  *MockSnapshotInvalidator
	product    *catalog.Product
	variantID  uuid.UUID
	otherProd  uuid.UUID
	unknownVar uuid.UUID
}

func newPromotionFixture(t *testing.T) *promotionFixture {
	t.Helper()
	product, err := catalog.NewProduct(testTenantID, "Bird Seed", "", uuid.New(), []catalog.VariantInput{
		{SKU: "SEED-500", Name: "500g", Stock: 3, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(60000),
			valueobject.USD: decimal.RequireFromString("4.20"),
		}},
	})
	require.NoError(t, err)

	f := &promotionFixture{
		promos:     new(MockPromotionRepository),
		products:   new(MockProductRepository),
		snapshots:  new(MockSnapshotInvalidator),
		product:    product,
		variantID:  product.Variants[0].ID,
		otherProd:  uuid.New(),
		unknownVar: uuid.New(),
	}
	f.service = NewPromotionService(f.promos, f.products, f.snapshots, func() time.Time { return testNow }, nil)
	return f
}

func (f *promotionFixture) createRequest() CreatePromotionRequest {
	return CreatePromotionRequest{
		Name:      "Back to School",
		StartDate: testNow.Add(24 * time.Hour),
		EndDate:   testNow.Add(72 * time.Hour),
		IsActive:  true,
		Products: []PromotionProductRequest{{
			ProductID: f.product.ID,
			Variants: []PromotionVariantRequest{{
				VariantID:          f.variantID,
				DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(10)},
			}},
		}},
	}
}

func TestPromotionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fills original price from catalog and invalidates", func(t *testing.T) {
		f := newPromotionFixture(t)
		f.products.On("FindByIDs", ctx, testTenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)
		f.promos.On("Save", ctx, mock.AnythingOfType("*promotion.Promotion")).Return(nil)
		f.snapshots.On("Invalidate", ctx, testTenantID).Return(nil)

		resp, err := f.service.Create(ctx, testTenantID, f.createRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusScheduled, resp.Status)
		require.Len(t, resp.Products, 1)
		v := resp.Products[0].Variants[0]
		assert.True(t, v.OriginalPrice[valueobject.IDR].Equal(decimal.NewFromInt(60000)))
		assert.True(t, v.DiscountedPrice[valueobject.IDR].Equal(decimal.NewFromInt(54000)))
		assert.False(t, v.DiscountedPrice.Has(valueobject.USD))
		assert.True(t, v.IsActive)
		f.snapshots.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newPromotionFixture(t)
		req := f.createRequest()
		req.Products[0].ProductID = f.otherProd
		f.products.On("FindByIDs", ctx, testTenantID, []uuid.UUID{f.otherProd}).Return([]catalog.Product{}, nil)

		_, err := f.service.Create(ctx, testTenantID, req)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PRODUCT", de.Code)
		f.promos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("variant of another product", func(t *testing.T) {
		f := newPromotionFixture(t)
		req := f.createRequest()
		req.Products[0].Variants[0].VariantID = f.unknownVar
		f.products.On("FindByIDs", ctx, testTenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)

		_, err := f.service.Create(ctx, testTenantID, req)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_VARIANT", de.Code)
	})

	t.Run("invalidation failure does not fail the write", func(t *testing.T) {
		f := newPromotionFixture(t)
		f.products.On("FindByIDs", ctx, testTenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)
		f.promos.On("Save", ctx, mock.Anything).Return(nil)
		f.snapshots.On("Invalidate", ctx, testTenantID).Return(errors.New("redis down"))

		_, err := f.service.Create(ctx, testTenantID, f.createRequest())
		assert.NoError(t, err)
	})

	t.Run("save failure skips invalidation", func(t *testing.T) {
		f := newPromotionFixture(t)
		f.products.On("FindByIDs", ctx, testTenantID, []uuid.UUID{f.product.ID}).Return([]catalog.Product{*f.product}, nil)
		f.promos.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.service.Create(ctx, testTenantID, f.createRequest())
		assert.Error(t, err)
		f.snapshots.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestPromotionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newPromotionFixture(t)
	p, err := promotion.NewPromotion(testTenantID, "Flash", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), false, nil)
	require.NoError(t, err)

	f.promos.On("FindByIDForTenant", ctx, testTenantID, p.ID).Return(p, nil)
	f.promos.On("Save", ctx, p).Return(nil)
	f.snapshots.On("Invalidate", ctx, testTenantID).Return(nil)

	resp, err := f.service.Activate(ctx, testTenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, resp.Status)

	resp, err = f.service.Reschedule(ctx, testTenantID, p.ID, RescheduleRequest{
		StartDate: testNow.Add(-48 * time.Hour),
		EndDate:   testNow.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, resp.Status)

	name := "Flash Sale"
	resp, err = f.service.Update(ctx, testTenantID, p.ID, UpdatePromotionRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Flash Sale", resp.Name)

	resp, err = f.service.Deactivate(ctx, testTenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, resp.Status)

	require.NoError(t, f.service.Delete(ctx, testTenantID, p.ID))
	assert.True(t, p.IsDeleted)
	f.snapshots.AssertNumberOfCalls(t, "Invalidate", 5)

	_, err = f.service.Activate(ctx, testTenantID, p.ID)
	assert.Error(t, err)
	f.snapshots.AssertNumberOfCalls(t, "Invalidate", 5)
}

func TestPromotionService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newPromotionFixture(t)
	events := &recordingPublisher{}
	f.service.SetEventPublisher(events)
	p, err := promotion.NewPromotion(testTenantID, "Flash", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), false, nil)
	require.NoError(t, err)

	f.promos.On("FindByIDForTenant", ctx, testTenantID, p.ID).Return(p, nil)
	f.promos.On("Save", ctx, p).Return(nil)
	f.snapshots.On("Invalidate", ctx, testTenantID).Return(nil)

	_, err = f.service.Activate(ctx, testTenantID, p.ID)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, testTenantID, p.ID))

	assert.Equal(t, []string{
		promotion.EventTypePromotionCreated,
		promotion.EventTypePromotionActivated,
		promotion.EventTypePromotionDeleted,
	}, events.types)
	assert.Empty(t, p.GetDomainEvents())
}

func TestPromotionService_List(t *testing.T) {
	ctx := context.Background()
	f := newPromotionFixture(t)
	active := true
	matchFilter := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["is_active"] == true && filter.Page == 2
	})
	f.promos.On("FindAllForTenant", ctx, testTenantID, matchFilter).Return([]promotion.Promotion{}, nil)
	f.promos.On("CountForTenant", ctx, testTenantID, matchFilter).Return(int64(21), nil)

	items, total, err := f.service.List(ctx, testTenantID, PromotionListFilter{IsActive: &active, Page: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(21), total)
}
