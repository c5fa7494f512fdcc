package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/order"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/strategy"
	"github.com/petshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StrategySelector picks the pricing strategy of a viewer
type StrategySelector interface {
	ForViewer(isReseller bool) (strategy.PricingStrategy, error)
}

// PromotionLoader returns the active-promotion snapshot of a tenant
type PromotionLoader interface {
	Load(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]promotion.Promotion, error)
}

// OrderService places and tracks direct orders
type OrderService struct {
	orderRepo  order.OrderRepository
	txScope    TransactionScope
	strategies StrategySelector
	promotions PromotionLoader
	now        func() time.Time
	metrics    *telemetry.PricingMetrics
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService. now may be nil.
func NewOrderService(
	orderRepo order.OrderRepository,
	txScope TransactionScope,
	strategies StrategySelector,
	promotions PromotionLoader,
	now func() time.Time,
	metrics *telemetry.PricingMetrics,
	logger *zap.Logger,
) *OrderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:  orderRepo,
		txScope:    txScope,
		strategies: strategies,
		promotions: promotions,
		now:        now,
		metrics:    metrics,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for order events. Events go out only
// after the transaction commits.
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents hands the committed order's events to the publisher
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.events != nil {
		_ = s.events.Publish(ctx, o.GetDomainEvents()...)
	}
	o.ClearDomainEvents()
}

// PlaceDirectOrder prices the lines for the viewer, takes the units out of
// stock and stores the order in one transaction. Retail viewers get the
// promotion snapshot; resellers get their quantity tiers. The two never mix.
func (s *OrderService) PlaceDirectOrder(ctx context.Context, viewer *pricing.Viewer, req PlaceOrderRequest) (*OrderResponse, error) {
	if viewer == nil || viewer.UserID == nil {
		return nil, shared.ErrUnauthorized
	}
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place_direct_order",
		telemetry.SpanAttrTenantID, viewer.TenantID.String(),
		telemetry.SpanAttrCurrency, viewer.Currency.String(),
		telemetry.SpanAttrIsReseller, viewer.IsReseller,
	)
	defer span.End()

	strat, err := s.strategies.ForViewer(viewer.IsReseller)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	mode := order.PricingModePromotion
	if viewer.IsReseller {
		if viewer.ResellerCategory == nil {
			err := fmt.Errorf("%w: reseller viewer without a loaded category", shared.ErrInvalidState)
			telemetry.RecordError(span, err)
			return nil, err
		}
		mode = order.PricingModeResellerTier
	}

	now := s.now()
	var promos []promotion.Promotion
	if !viewer.IsReseller {
		if promos, err = s.promotions.Load(ctx, viewer.TenantID, now); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	var placed *order.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products, err := repos.ProductRepo().LockByIDs(ctx, viewer.TenantID, productIDs(lines))
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		items := make([]order.ItemInput, 0, len(lines))
		touched := make(map[uuid.UUID]*catalog.Product)
		for _, line := range lines {
			product, ok := byID[line.ProductID]
			if !ok || !product.IsActive() {
				return shared.NewDomainError("NOT_FOUND", "Product "+line.ProductID.String()+" not found")
			}
			variant, ok := product.FindVariant(line.VariantID)
			if !ok {
				return shared.NewDomainError("NOT_FOUND", "Variant "+line.VariantID.String()+" not found")
			}
			base, ok := variant.Price.Get(viewer.Currency)
			if !ok {
				return shared.NewDomainError("PRICE_UNAVAILABLE", "Variant "+variant.SKU+" is not priced in "+viewer.Currency.String())
			}

			result, err := strat.CalculatePrice(ctx, strategy.PricingContext{
				TenantID:           viewer.TenantID,
				ProductID:          product.ID,
				VariantID:          variant.ID,
				CategoryID:         product.CategoryID,
				ResellerCategoryID: viewer.ResellerCategoryID(),
				ResellerCategory:   viewer.ResellerCategory,
				Quantity:           line.Quantity,
				BasePrice:          base,
				Currency:           viewer.Currency,
				At:                 now,
				Promotions:         promos,
			})
			if err != nil {
				return err
			}

			// capture the variant before DecreaseStock mutates the product
			items = append(items, order.ItemInput{
				ProductID:          product.ID,
				VariantID:          variant.ID,
				ProductName:        product.Name + " - " + variant.Name,
				SKU:                variant.SKU,
				Quantity:           line.Quantity,
				UnitPrice:          result.UnitPrice,
				OriginalUnitPrice:  result.OriginalUnitPrice,
				DiscountPercentage: result.DiscountPercent,
				AppliedRule:        strings.Join(result.AppliedRules, ","),
			})
			if err := product.DecreaseStock(variant.ID, line.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+variant.SKU)
				}
				return err
			}
			touched[product.ID] = product
		}

		o, err := order.NewOrder(viewer.TenantID, *viewer.UserID, viewer.Currency, mode, items, req.Note)
		if err != nil {
			return err
		}
		for _, p := range touched {
			if err := repos.ProductRepo().Save(ctx, p); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, placed.OrderNumber,
		telemetry.SpanAttrPricingMode, string(mode))
	s.metrics.RecordOrderPlaced(ctx, string(mode), viewer.Currency.String())
	s.publishEvents(ctx, placed)
	s.logger.Info("Order placed",
		zap.String("tenant_id", viewer.TenantID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("pricing_mode", string(mode)),
		zap.String("currency", viewer.Currency.String()),
		zap.String("total", placed.Total.String()))

	resp := ToOrderResponse(placed)
	return &resp, nil
}

// GetByID retrieves an order. Non-admins get NOT_FOUND for other users' orders.
func (s *OrderService) GetByID(ctx context.Context, tenantID uuid.UUID, who Requester, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !who.IsAdmin && o.UserID != who.UserID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List retrieves orders, newest first. Non-admins only see their own.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, who Requester, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = order.Status(filter.Status)
	}
	switch {
	case !who.IsAdmin:
		domainFilter.Filters["user_id"] = who.UserID
	case filter.UserID != nil:
		domainFilter.Filters["user_id"] = *filter.UserID
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// UpdateStatus moves an order through its lifecycle. Cancelling puts the
// units back into stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)

	var updated *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(target); err != nil {
			return err
		}

		if target == order.StatusCancelled {
			ids := make([]uuid.UUID, 0, len(o.Items))
			for _, it := range o.Items {
				ids = append(ids, it.ProductID)
			}
			products, err := repos.ProductRepo().LockByIDs(ctx, tenantID, ids)
			if err != nil {
				return err
			}
			byID := make(map[uuid.UUID]*catalog.Product, len(products))
			for i := range products {
				byID[products[i].ID] = &products[i]
			}
			for _, it := range o.Items {
				if p, ok := byID[it.ProductID]; ok {
					p.RestoreStock(it.VariantID, it.Quantity)
				}
			}
			for i := range products {
				if err := repos.ProductRepo().Save(ctx, &products[i]); err != nil {
					return err
				}
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated)
	s.logger.Info("Order status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", string(updated.Status)))
	resp := ToOrderResponse(updated)
	return &resp, nil
}

// mergeLines folds repeated variants into one line so tiers see the full
// quantity. Order of first appearance is kept.
func mergeLines(items []OrderLineRequest) ([]OrderLineRequest, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order needs at least one item")
	}
	merged := make([]OrderLineRequest, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if i, ok := index[it.VariantID]; ok {
			if merged[i].ProductID != it.ProductID {
				return nil, shared.NewDomainError("INVALID_INPUT", "Variant "+it.VariantID.String()+" listed under two products")
			}
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.VariantID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}

func productIDs(lines []OrderLineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
