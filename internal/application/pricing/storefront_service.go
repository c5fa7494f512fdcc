package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	domainpricing "github.com/petshop/backend/internal/domain/pricing"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/petshop/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const serviceName = "storefront_pricing"

// StorefrontPricingService resolves the prices shoppers see. Each call
// loads one active-promotion snapshot and resolves against it at a single
// instant taken from the resolver clock.
type StorefrontPricingService struct {
	productRepo  catalog.ProductRepository
	resellerRepo reseller.ResellerCategoryRepository
	promotions   *ActivePromotionSource
	resolver     *domainpricing.Resolver
	currencies   *CurrencySelector
	metrics      *telemetry.PricingMetrics
	logger       *zap.Logger
}

// NewStorefrontPricingService creates a new StorefrontPricingService
func NewStorefrontPricingService(
	productRepo catalog.ProductRepository,
	resellerRepo reseller.ResellerCategoryRepository,
	promotions *ActivePromotionSource,
	resolver *domainpricing.Resolver,
	currencies *CurrencySelector,
	metrics *telemetry.PricingMetrics,
	logger *zap.Logger,
) *StorefrontPricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontPricingService{
		productRepo:  productRepo,
		resellerRepo: resellerRepo,
		promotions:   promotions,
		resolver:     resolver,
		currencies:   currencies,
		metrics:      metrics,
		logger:       logger,
	}
}

// ResolveViewer builds the pricing context of a request. A reseller is
// priced in their category's currency; everyone else gets the requested
// currency, then the geo currency, then the default.
func (s *StorefrontPricingService) ResolveViewer(ctx context.Context, in ViewerInput) (*Viewer, error) {
	v := &Viewer{TenantID: in.TenantID, UserID: in.UserID}

	if in.Role == "reseller" && in.ResellerCategoryID != nil {
		category, err := s.resellerRepo.FindByIDForTenant(ctx, in.TenantID, *in.ResellerCategoryID)
		switch {
		case err == nil && !category.IsDeleted:
			v.IsReseller = true
			v.ResellerCategory = category
			v.Currency = category.Currency
			v.CurrencySource = CurrencySourceResellerCategory
			return v, nil
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return nil, err
		default:
			// a dangling category link prices the account as retail
			s.logger.Warn("Reseller category not found, pricing as retail",
				zap.String("tenant_id", in.TenantID.String()),
				zap.String("reseller_category_id", in.ResellerCategoryID.String()))
		}
	}

	if c, ok := s.currencies.Requested(in.RequestedCurrency); ok {
		v.Currency, v.CurrencySource = c, CurrencySourceRequested
	} else if c, ok := s.currencies.FromCountry(in.Country); ok {
		v.Currency, v.CurrencySource = c, CurrencySourceGeo
	} else {
		v.Currency, v.CurrencySource = s.currencies.Default(), CurrencySourceDefault
	}
	return v, nil
}

// GetVariantPrice resolves one variant for the viewer
func (s *StorefrontPricingService) GetVariantPrice(ctx context.Context, viewer *Viewer, productID, variantID uuid.UUID) (*VariantPriceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "get_variant_price",
		telemetry.SpanAttrTenantID, viewer.TenantID.String(),
		telemetry.SpanAttrProductID, productID.String(),
		telemetry.SpanAttrVariantID, variantID.String(),
		telemetry.SpanAttrCurrency, viewer.Currency.String(),
		telemetry.SpanAttrIsReseller, viewer.IsReseller,
	)
	defer span.End()
	defer s.observe(ctx, "get_variant_price", time.Now())

	product, err := s.storefrontProduct(ctx, viewer.TenantID, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	variant, ok := product.FindVariant(variantID)
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Variant not found")
	}
	base, ok := variant.Price.Get(viewer.Currency)
	if !ok {
		return nil, shared.NewDomainError("PRICE_UNAVAILABLE", "Variant is not priced in "+viewer.Currency.String())
	}

	now := s.resolver.Now()
	promos, err := s.snapshot(ctx, viewer, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resolved := domainpricing.ResolveFinalPrice(base, viewer.Currency, product.ID, variant.ID, promos, viewer.IsReseller, now)
	s.recordResolution(ctx, viewer, resolved)

	resp := toVariantPrice(product, variant, viewer.Currency, resolved)
	return &resp, nil
}

// GetProductPrices resolves every variant of a product priced in the
// viewer's currency, plus the listing summary.
func (s *StorefrontPricingService) GetProductPrices(ctx context.Context, viewer *Viewer, productID uuid.UUID) (*ProductPricesResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "get_product_prices",
		telemetry.SpanAttrTenantID, viewer.TenantID.String(),
		telemetry.SpanAttrProductID, productID.String(),
		telemetry.SpanAttrCurrency, viewer.Currency.String(),
	)
	defer span.End()
	defer s.observe(ctx, "get_product_prices", time.Now())

	product, err := s.storefrontProduct(ctx, viewer.TenantID, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.resolver.Now()
	promos, err := s.snapshot(ctx, viewer, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &ProductPricesResponse{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Currency:  viewer.Currency.String(),
		Summary:   domainpricing.GetProductMinPrice(pricedVariants(product), product.ID, viewer.Currency, promos, viewer.IsReseller, now),
		Variants:  make([]VariantPriceResponse, 0, len(product.Variants)),
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		base, ok := v.Price.Get(viewer.Currency)
		if !ok {
			continue
		}
		resolved := domainpricing.ResolveFinalPrice(base, viewer.Currency, product.ID, v.ID, promos, viewer.IsReseller, now)
		s.recordResolution(ctx, viewer, resolved)
		resp.Variants = append(resp.Variants, toVariantPrice(product, v, viewer.Currency, resolved))
	}
	return resp, nil
}

// ListProductPrices returns a catalog page of active products with their
// representative price.
func (s *StorefrontPricingService) ListProductPrices(ctx context.Context, viewer *Viewer, filter ListingFilter) ([]ProductListingItem, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "list_product_prices",
		telemetry.SpanAttrTenantID, viewer.TenantID.String(),
		telemetry.SpanAttrCurrency, viewer.Currency.String(),
		telemetry.SpanAttrIsReseller, viewer.IsReseller,
	)
	defer span.End()
	defer s.observe(ctx, "list_product_prices", time.Now())

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{"status": catalog.ProductStatusActive},
	}
	if domainFilter.Page == 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize == 0 {
		domainFilter.PageSize = 20
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	products, err := s.productRepo.FindAllForTenant(ctx, viewer.TenantID, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, viewer.TenantID, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	now := s.resolver.Now()
	promos, err := s.snapshot(ctx, viewer, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	items := make([]ProductListingItem, 0, len(products))
	labels := telemetry.PricingLabels("list_product_prices", viewer.TenantID.String(), viewer.Currency.String(), viewer.IsReseller)
	telemetry.WithProfilingLabels(ctx, labels, func(context.Context) {
		for i := range products {
			p := &products[i]
			items = append(items, ProductListingItem{
				ID:              p.ID,
				Name:            p.Name,
				Slug:            p.Slug,
				CategoryID:      p.CategoryID,
				Currency:        viewer.Currency.String(),
				ProductMinPrice: domainpricing.GetProductMinPrice(pricedVariants(p), p.ID, viewer.Currency, promos, viewer.IsReseller, now),
			})
		}
	})
	return items, total, nil
}

// QuoteReseller prices lines with the reseller's quantity tiers. Promotions
// never apply to a quote.
func (s *StorefrontPricingService) QuoteReseller(ctx context.Context, viewer *Viewer, req QuoteRequest) (*QuoteResponse, error) {
	if viewer == nil || !viewer.IsReseller || viewer.ResellerCategory == nil {
		return nil, shared.NewDomainError("FORBIDDEN", "Only resellers can request a tier quote")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "quote_reseller",
		telemetry.SpanAttrTenantID, viewer.TenantID.String(),
		telemetry.SpanAttrCurrency, viewer.Currency.String(),
	)
	defer span.End()
	defer s.observe(ctx, "quote_reseller", time.Now())

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, viewer.TenantID, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	category := viewer.ResellerCategory
	resp := &QuoteResponse{
		Currency:         viewer.Currency.String(),
		ResellerCategory: category.Name,
		TierPolicy:       string(s.resolver.TierPolicy()),
		Items:            make([]QuoteLineResponse, 0, len(req.Items)),
		Subtotal:         decimal.Zero,
		Total:            decimal.Zero,
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive() {
			return nil, shared.NewDomainError("NOT_FOUND", "Product "+line.ProductID.String()+" not found")
		}
		variant, ok := product.FindVariant(line.VariantID)
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Variant "+line.VariantID.String()+" not found")
		}
		base, ok := variant.Price.Get(viewer.Currency)
		if !ok {
			return nil, shared.NewDomainError("PRICE_UNAVAILABLE", "Variant "+variant.SKU+" is not priced in "+viewer.Currency.String())
		}

		resolved, tier := s.resolver.ResellerPrice(base, viewer.Currency, category.Tiers, line.Quantity, product.CategoryID)
		s.recordResolution(ctx, viewer, resolved)

		qty := decimal.NewFromInt(int64(line.Quantity))
		lineResp := QuoteLineResponse{
			ProductID:          product.ID,
			VariantID:          variant.ID,
			SKU:                variant.SKU,
			Quantity:           line.Quantity,
			UnitPrice:          resolved.FinalPrice,
			OriginalUnitPrice:  resolved.OriginalPrice,
			DiscountPercentage: resolved.DiscountPercentage,
			LineTotal:          resolved.FinalPrice.Mul(qty),
		}
		if tier != nil {
			minQty := tier.MinimumQuantity
			lineResp.TierMinimumQuantity = &minQty
		}
		resp.Items = append(resp.Items, lineResp)
		resp.Subtotal = resp.Subtotal.Add(resolved.OriginalPrice.Mul(qty))
		resp.Total = resp.Total.Add(lineResp.LineTotal)
	}
	resp.Subtotal = viewer.Currency.Round(resp.Subtotal)
	resp.Total = viewer.Currency.Round(resp.Total)
	resp.Discount = resp.Subtotal.Sub(resp.Total)
	return resp, nil
}

// ActivePromotions returns the snapshot used for a viewer at now. Resellers
// are never priced from promotions, so they skip the load entirely.
func (s *StorefrontPricingService) ActivePromotions(ctx context.Context, viewer *Viewer, now time.Time) ([]promotion.Promotion, error) {
	return s.snapshot(ctx, viewer, now)
}

func (s *StorefrontPricingService) snapshot(ctx context.Context, viewer *Viewer, now time.Time) ([]promotion.Promotion, error) {
	if viewer.IsReseller {
		return nil, nil
	}
	return s.promotions.Load(ctx, viewer.TenantID, now)
}

func (s *StorefrontPricingService) storefrontProduct(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (s *StorefrontPricingService) recordResolution(ctx context.Context, viewer *Viewer, r domainpricing.ResolvedPrice) {
	source := telemetry.PriceSourceBase
	if r.HasDiscount {
		source = telemetry.PriceSourcePromotion
		if viewer.IsReseller {
			source = telemetry.PriceSourceResellerTier
		}
	}
	s.metrics.RecordResolution(ctx, source, viewer.Currency.String(), viewer.IsReseller)
}

func (s *StorefrontPricingService) observe(ctx context.Context, operation string, start time.Time) {
	s.metrics.ObserveResolve(ctx, operation, time.Since(start))
}

func pricedVariants(p *catalog.Product) []domainpricing.PricedVariant {
	out := make([]domainpricing.PricedVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		out = append(out, domainpricing.PricedVariant{VariantID: v.ID, Price: v.Price})
	}
	return out
}

func toVariantPrice(p *catalog.Product, v *catalog.Variant, currency valueobject.Currency, r domainpricing.ResolvedPrice) VariantPriceResponse {
	return VariantPriceResponse{
		ProductID:          p.ID,
		VariantID:          v.ID,
		SKU:                v.SKU,
		Name:               v.Name,
		Currency:           currency.String(),
		FinalPrice:         r.FinalPrice,
		OriginalPrice:      r.OriginalPrice,
		HasDiscount:        r.HasDiscount,
		DiscountPercentage: r.DiscountPercentage,
		InStock:            v.Stock > 0,
	}
}
