package router

import (
	"github.com/gin-gonic/gin"
	"github.com/petshop/backend/internal/interfaces/http/handler"
	"github.com/petshop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RoleAdmin is the role allowed on /admin routes
const RoleAdmin = "admin"

// Handlers bundles every API handler
type Handlers struct {
	Health           *handler.HealthHandler
	Auth             *handler.AuthHandler
	Storefront       *handler.StorefrontHandler
	Order            *handler.OrderHandler
	Category         *handler.CategoryHandler
	Product          *handler.ProductHandler
	Promotion        *handler.PromotionHandler
	ResellerCategory *handler.ResellerCategoryHandler
	User             *handler.UserHandler
}

// RouteConfig carries what the API middleware needs
type RouteConfig struct {
	Tokens       middleware.TokenValidator
	Tenant       middleware.TenantConfig
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	Logger       *zap.Logger
}

// Setup mounts /health and the /api/v1 routes on engine. Every API request
// gets an optional JWT pass and a resolved tenant; orders need a token and
// /admin needs the admin role.
func Setup(engine *gin.Engine, h Handlers, cfg RouteConfig) {
	engine.GET("/health", h.Health.Health)

	r := NewRouter(engine, WithAPIMiddleware(
		middleware.OptionalJWTAuthMiddleware(cfg.Tokens, cfg.Logger),
		middleware.TenantMiddleware(cfg.Tenant),
	))
	requireAuth := middleware.JWTAuthMiddleware(cfg.Tokens, cfg.Logger)

	storefront := NewDomainGroup("storefront", "/storefront")
	storefront.GET("/products", h.Storefront.ListProducts)
	storefront.GET("/products/:id/prices", h.Storefront.GetProductPrices)
	storefront.GET("/products/:id/variants/:variant_id/price", h.Storefront.GetVariantPrice)
	storefront.POST("/reseller-quote", requireAuth, h.Storefront.QuoteReseller)

	auth := NewDomainGroup("auth", "/auth")
	loginChain := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		loginChain = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter)}, loginChain...)
	}
	auth.POST("/login", loginChain...)
	auth.POST("/register", h.Auth.Register)
	auth.GET("/me", requireAuth, h.Auth.Me)

	orders := NewDomainGroup("orders", "/orders").Use(requireAuth)
	orders.POST("", h.Order.Place)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.Get)

	admin := NewDomainGroup("admin", "/admin").Use(requireAuth, middleware.RequireRole(RoleAdmin))
	registerAdminRoutes(admin, h)

	r.Register(storefront, auth, orders, admin)
	r.Setup()
}

func registerAdminRoutes(admin *DomainGroup, h Handlers) {
	categories := admin.Group("categories", "/categories")
	categories.POST("", h.Category.Create)
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.GetByID)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	products := admin.Group("products", "/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.PUT("/stock", h.Product.UpdateStock)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.POST("/:id/activate", h.Product.Activate)
	products.POST("/:id/deactivate", h.Product.Deactivate)

	promotions := admin.Group("promotions", "/promotions")
	promotions.POST("", h.Promotion.Create)
	promotions.GET("", h.Promotion.List)
	promotions.GET("/:id", h.Promotion.GetByID)
	promotions.PUT("/:id", h.Promotion.Update)
	promotions.DELETE("/:id", h.Promotion.Delete)
	promotions.POST("/:id/activate", h.Promotion.Activate)
	promotions.POST("/:id/deactivate", h.Promotion.Deactivate)
	promotions.PUT("/:id/schedule", h.Promotion.Reschedule)
	promotions.PUT("/:id/products", h.Promotion.ReplaceProducts)

	resellers := admin.Group("reseller-categories", "/reseller-categories")
	resellers.POST("", h.ResellerCategory.Create)
	resellers.GET("", h.ResellerCategory.List)
	resellers.GET("/:id", h.ResellerCategory.GetByID)
	resellers.PUT("/:id", h.ResellerCategory.Update)
	resellers.PUT("/:id/tiers", h.ResellerCategory.ReplaceTiers)
	resellers.DELETE("/:id", h.ResellerCategory.Delete)

	users := admin.Group("users", "/users")
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id/role", h.User.ChangeRole)
	users.POST("/:id/activate", h.User.Activate)
	users.POST("/:id/deactivate", h.User.Deactivate)

	orders := admin.Group("orders", "/orders")
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.Get)
	orders.PUT("/:id/status", h.Order.UpdateStatus)
}
