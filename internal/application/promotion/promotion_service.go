package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SnapshotInvalidator drops a tenant's cached active-promotion snapshot
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// PromotionService handles promotion authoring. Every successful write
// invalidates the tenant's active-promotion snapshot.
type PromotionService struct {
	promotionRepo promotion.PromotionRepository
	productRepo   catalog.ProductRepository
	snapshots     SnapshotInvalidator
	events        shared.EventPublisher
	now           func() time.Time
	logger        *zap.Logger
}

// NewPromotionService creates a new PromotionService. now may be nil.
func NewPromotionService(
	promotionRepo promotion.PromotionRepository,
	productRepo catalog.ProductRepository,
	snapshots SnapshotInvalidator,
	now func() time.Time,
	logger *zap.Logger,
) *PromotionService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
		snapshots:     snapshots,
		now:           now,
		logger:        logger,
	}
}

// SetEventPublisher sets the publisher for promotion domain events
func (s *PromotionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// Create creates a promotion
func (s *PromotionService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePromotionRequest) (*PromotionResponse, error) {
	products, err := s.buildProducts(ctx, tenantID, req.Products)
	if err != nil {
		return nil, err
	}

	p, err := promotion.NewPromotion(tenantID, req.Name, req.Description, req.StartDate, req.EndDate, req.IsActive, products)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Promotion created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("promotion_id", p.ID.String()),
		zap.Time("start_date", p.StartDate),
		zap.Time("end_date", p.EndDate))
	resp := ToPromotionResponse(p, s.now())
	return &resp, nil
}

// GetByID retrieves a promotion
func (s *PromotionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PromotionResponse, error) {
	p, err := s.promotionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(p, s.now())
	return &resp, nil
}

// List retrieves promotions, newest first
func (s *PromotionService) List(ctx context.Context, tenantID uuid.UUID, filter PromotionListFilter) ([]PromotionResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	promos, err := s.promotionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.promotionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]PromotionResponse, len(promos))
	for i := range promos {
		responses[i] = ToPromotionResponse(&promos[i], now)
	}
	return responses, total, nil
}

// Update edits name and description
func (s *PromotionService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePromotionRequest) (*PromotionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *promotion.Promotion) error {
		name, description := p.Name, p.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		return p.Update(name, description)
	})
}

// Reschedule moves the promotion window
func (s *PromotionService) Reschedule(ctx context.Context, tenantID, id uuid.UUID, req RescheduleRequest) (*PromotionResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *promotion.Promotion) error {
		return p.Reschedule(req.StartDate, req.EndDate)
	})
}

// ReplaceProducts swaps the covered products and their promo prices
func (s *PromotionService) ReplaceProducts(ctx context.Context, tenantID, id uuid.UUID, req ReplaceProductsRequest) (*PromotionResponse, error) {
	products, err := s.buildProducts(ctx, tenantID, req.Products)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, tenantID, id, func(p *promotion.Promotion) error {
		return p.ReplaceProducts(products)
	})
}

// Activate publishes a promotion
func (s *PromotionService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*PromotionResponse, error) {
	return s.mutate(ctx, tenantID, id, (*promotion.Promotion).Activate)
}

// Deactivate withdraws a promotion without deleting it
func (s *PromotionService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*PromotionResponse, error) {
	return s.mutate(ctx, tenantID, id, (*promotion.Promotion).Deactivate)
}

// Delete soft-deletes a promotion
func (s *PromotionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, id, (*promotion.Promotion).SoftDelete)
	return err
}

func (s *PromotionService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*promotion.Promotion) error) (*PromotionResponse, error) {
	p, err := s.promotionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(p, s.now())
	return &resp, nil
}

// save persists and invalidates. An invalidation failure is logged only;
// the snapshot TTL bounds how long stale prices can be served.
func (s *PromotionService) save(ctx context.Context, p *promotion.Promotion) error {
	if err := s.promotionRepo.Save(ctx, p); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, p.GetDomainEvents()...)
	}
	p.ClearDomainEvents()
	if s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Invalidate(ctx, p.TenantID); err != nil {
		s.logger.Warn("Failed to invalidate promotion snapshot",
			zap.String("tenant_id", p.TenantID.String()),
			zap.String("promotion_id", p.ID.String()),
			zap.Error(err))
	}
	return nil
}

// buildProducts checks that every referenced variant belongs to its product
// and fills missing original prices from the catalog.
func (s *PromotionService) buildProducts(ctx context.Context, tenantID uuid.UUID, reqs []PromotionProductRequest) ([]promotion.ProductInput, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ProductID)
	}
	found, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	inputs := make([]promotion.ProductInput, 0, len(reqs))
	for _, r := range reqs {
		product, ok := byID[r.ProductID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product "+r.ProductID.String()+" not found")
		}
		input := promotion.ProductInput{ProductID: product.ID}
		for _, vr := range r.Variants {
			variant, ok := product.FindVariant(vr.VariantID)
			if !ok {
				return nil, shared.NewDomainError("INVALID_VARIANT", "Variant "+vr.VariantID.String()+" does not belong to product "+product.ID.String())
			}
			original := vr.OriginalPrice
			if len(original) == 0 {
				original = variant.Price.Clone()
			}
			active := true
			if vr.IsActive != nil {
				active = *vr.IsActive
			}
			input.Variants = append(input.Variants, promotion.VariantInput{
				VariantID:          variant.ID,
				OriginalPrice:      original,
				DiscountPercentage: vr.DiscountPercentage,
				IsActive:           active,
			})
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
