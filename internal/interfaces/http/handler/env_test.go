package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/petshop/backend/internal/application/catalog"
	"github.com/petshop/backend/internal/application/identity"
	orderapp "github.com/petshop/backend/internal/application/order"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/domain/catalog"
	domainidentity "github.com/petshop/backend/internal/domain/identity"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/petshop/backend/internal/infrastructure/auth"
	"github.com/petshop/backend/internal/infrastructure/cache"
	"github.com/petshop/backend/internal/infrastructure/config"
	"github.com/petshop/backend/internal/infrastructure/persistence"
	infrastrategy "github.com/petshop/backend/internal/infrastructure/strategy"
	strategypricing "github.com/petshop/backend/internal/infrastructure/strategy/pricing"
	"github.com/petshop/backend/internal/interfaces/http/dto"
	"github.com/petshop/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

const geoHeader = "CF-IPCountry"

// apiEnv is a storefront API over an in-memory sqlite database
type apiEnv struct {
	t        *testing.T
	engine   *gin.Engine
	db       *persistence.Database
	tokens   *auth.JWTService
	tenantID uuid.UUID

	products   *persistence.GormProductRepository
	categories *persistence.GormCategoryRepository
	resellers  *persistence.GormResellerCategoryRepository
	users      *persistence.GormUserRepository
	promotions *persistence.GormPromotionRepository

	product  *catalog.Product
	small    catalog.Variant // KIB-1KG: IDR 100000, USD 7.50, stock 10
	large    catalog.Variant // KIB-5KG: IDR 400000, stock 4, 25% flash sale
	gold     *reseller.ResellerCategory
	customer *domainidentity.User
	reseller *domainidentity.User
	admin    *domainidentity.User
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		// a single connection makes any query issued outside an open
		// transaction block until that transaction ends
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &apiEnv{
		t:          t,
		db:         db,
		tenantID:   uuid.New(),
		products:   persistence.NewGormProductRepository(db.DB),
		categories: persistence.NewGormCategoryRepository(db.DB),
		resellers:  persistence.NewGormResellerCategoryRepository(db.DB),
		users:      persistence.NewGormUserRepository(db.DB),
		promotions: persistence.NewGormPromotionRepository(db.DB),
		tokens: auth.NewJWTService(config.JWTConfig{
			Secret:                "handler-test-secret-at-least-32-chars",
			AccessTokenExpiration: time.Hour,
			Issuer:                "petshop-test",
		}),
	}
	env.seed()
	env.engine = env.buildEngine()
	return env
}

func (e *apiEnv) seed() {
	t, ctx := e.t, context.Background()

	category, err := catalog.NewCategory(e.tenantID, "Dog Food", "")
	require.NoError(t, err)
	require.NoError(t, e.categories.Save(ctx, category))

	product, err := catalog.NewProduct(e.tenantID, "Salmon Kibble", "grain free", category.ID, []catalog.VariantInput{
		{SKU: "KIB-1KG", Name: "1kg", Stock: 10, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(100000),
			valueobject.USD: decimal.RequireFromString("7.50"),
		}},
		{SKU: "KIB-5KG", Name: "5kg", Stock: 4, Price: valueobject.CurrencyPrices{
			valueobject.IDR: decimal.NewFromInt(400000),
		}},
	})
	require.NoError(t, err)
	require.NoError(t, e.products.Save(ctx, product))
	e.product, e.small, e.large = product, product.Variants[0], product.Variants[1]

	sale, err := promotion.NewPromotion(e.tenantID, "Flash Sale", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), true,
		[]promotion.ProductInput{{
			ProductID: product.ID,
			Variants: []promotion.VariantInput{{
				VariantID:          e.large.ID,
				OriginalPrice:      valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(400000)},
				DiscountPercentage: valueobject.CurrencyPrices{valueobject.IDR: decimal.NewFromInt(25)},
				IsActive:           true,
			}},
		}})
	require.NoError(t, err)
	require.NoError(t, e.promotions.Save(ctx, sale))

	gold, err := reseller.NewResellerCategory(e.tenantID, "Gold", "IDR", []reseller.TierDiscount{
		{MinimumQuantity: 5, Discount: decimal.NewFromInt(10), CategoryProduct: reseller.AllCategories()},
	})
	require.NoError(t, err)
	require.NoError(t, e.resellers.Save(ctx, gold))
	e.gold = gold

	e.customer, err = domainidentity.NewUser(e.tenantID, "kim@example.com", "Kim", "password123", domainidentity.RoleCustomer)
	require.NoError(t, err)
	e.reseller, err = domainidentity.NewReseller(e.tenantID, "shop@example.com", "Pet Corner", "password123", gold.ID)
	require.NoError(t, err)
	e.admin, err = domainidentity.NewUser(e.tenantID, "admin@example.com", "Admin", "password123", domainidentity.RoleAdmin)
	require.NoError(t, err)
	for _, u := range []*domainidentity.User{e.customer, e.reseller, e.admin} {
		require.NoError(t, e.users.Save(ctx, u))
	}
}

func (e *apiEnv) buildEngine() *gin.Engine {
	t := e.t
	clock := func() time.Time { return testNow }

	snapshots := cache.NewInMemoryPromotionCache(cache.WithInMemoryClock(clock))
	t.Cleanup(snapshots.Stop)
	source := pricingapp.NewActivePromotionSource(e.promotions, pricingapp.WithSnapshotCache(snapshots))
	resolver := domainpricing.NewResolver(domainpricing.WithClock(clock))
	selector := pricingapp.NewCurrencySelector("IDR", []string{"IDR", "USD", "SGD"})
	pricingService := pricingapp.NewStorefrontPricingService(e.products, e.resellers, source, resolver, selector, nil, nil)

	registry, err := infrastrategy.NewRegistryWithProvider(
		strategypricing.NewRepositoryResellerCategoryProvider(e.resellers), domainpricing.TierPolicyHighestThreshold)
	require.NoError(t, err)
	orderService := orderapp.NewOrderService(persistence.NewGormOrderRepository(e.db.DB),
		persistence.NewGormTransactionScope(e.db.DB), registry, source, clock, nil, nil)

	userService := identity.NewUserService(e.users, e.resellers, nil)
	viewers := NewViewerResolver(pricingService, geoHeader)

	storefront := NewStorefrontHandler(pricingService, viewers)
	orders := NewOrderHandler(orderService, viewers)
	authHandler := NewAuthHandler(identity.NewAuthService(e.users, e.tokens, nil), userService)
	products := NewProductHandler(catalogapp.NewProductService(e.products, e.categories, nil))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1",
		middleware.OptionalJWTAuthMiddleware(e.tokens, nil),
		middleware.TenantMiddleware(middleware.TenantConfig{DefaultTenant: e.tenantID}))
	requireAuth := middleware.JWTAuthMiddleware(e.tokens, nil)

	api.GET("/storefront/products", storefront.ListProducts)
	api.GET("/storefront/products/:id/prices", storefront.GetProductPrices)
	api.GET("/storefront/products/:id/variants/:variant_id/price", storefront.GetVariantPrice)
	api.POST("/storefront/reseller-quote", requireAuth, storefront.QuoteReseller)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/me", requireAuth, authHandler.Me)

	api.POST("/orders", requireAuth, orders.Place)
	api.GET("/orders", requireAuth, orders.List)
	api.GET("/orders/:id", requireAuth, orders.Get)
	api.PUT("/admin/orders/:id/status", requireAuth, middleware.RequireRole("admin"), orders.UpdateStatus)

	api.PUT("/admin/products/stock", requireAuth, middleware.RequireRole("admin"), products.UpdateStock)
	api.GET("/admin/products/:id", requireAuth, middleware.RequireRole("admin"), products.GetByID)
	return engine
}

// tokenFor issues an access token carrying the user's role and category
func (e *apiEnv) tokenFor(u *domainidentity.User) string {
	e.t.Helper()
	token, err := e.tokens.GenerateAccessToken(auth.GenerateTokenInput{
		TenantID:           u.TenantID,
		UserID:             u.ID,
		Email:              u.Email,
		Role:               string(u.Role),
		ResellerCategoryID: u.ResellerCategoryID,
	})
	require.NoError(e.t, err)
	return token.Token
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token) }
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (e *apiEnv) do(method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.Response with a typed data field
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
