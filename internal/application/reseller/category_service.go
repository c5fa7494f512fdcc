package reseller

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResellerCategoryService manages reseller categories and their quantity tiers
type ResellerCategoryService struct {
	repo   reseller.ResellerCategoryRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewResellerCategoryService creates a new ResellerCategoryService
func NewResellerCategoryService(repo reseller.ResellerCategoryRepository, logger *zap.Logger) *ResellerCategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResellerCategoryService{repo: repo, logger: logger}
}

// SetEventPublisher sets the publisher for reseller category events
func (s *ResellerCategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// Create creates a reseller category
func (s *ResellerCategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateResellerCategoryRequest) (*ResellerCategoryResponse, error) {
	if err := s.ensureNameFree(ctx, tenantID, req.Name); err != nil {
		return nil, err
	}

	category, err := reseller.NewResellerCategory(tenantID, req.Name, req.Currency, req.Tiers)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		category.SetCreatedBy(*req.CreatedBy)
	}
	if err := s.save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Reseller category created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("category_id", category.ID.String()),
		zap.Int("tiers", len(category.Tiers)))
	resp := ToResellerCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a reseller category
func (s *ResellerCategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ResellerCategoryResponse, error) {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToResellerCategoryResponse(category)
	return &resp, nil
}

// List retrieves reseller categories ordered by name
func (s *ResellerCategoryService) List(ctx context.Context, tenantID uuid.UUID, filter ResellerCategoryListFilter) ([]ResellerCategoryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	categories, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ResellerCategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToResellerCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update renames a category or changes its pricing currency
func (s *ResellerCategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateResellerCategoryRequest) (*ResellerCategoryResponse, error) {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && !strings.EqualFold(strings.TrimSpace(*req.Name), category.Name) {
		if err := s.ensureNameFree(ctx, tenantID, *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Currency != nil {
		if err := category.ChangeCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToResellerCategoryResponse(category)
	return &resp, nil
}

// ReplaceTiers swaps the full tier list of a category
func (s *ResellerCategoryService) ReplaceTiers(ctx context.Context, tenantID, id uuid.UUID, req ReplaceTiersRequest) (*ResellerCategoryResponse, error) {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := category.ReplaceTiers(req.Tiers); err != nil {
		return nil, err
	}
	if err := s.save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToResellerCategoryResponse(category)
	return &resp, nil
}

// Delete soft-deletes a category. Resellers still linked to it are priced
// as retail until reassigned.
func (s *ResellerCategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := category.SoftDelete(); err != nil {
		return err
	}
	return s.save(ctx, category)
}

// save persists the category, then publishes its pending events
func (s *ResellerCategoryService) save(ctx context.Context, category *reseller.ResellerCategory) error {
	if err := s.repo.Save(ctx, category); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, category.GetDomainEvents()...)
	}
	category.ClearDomainEvents()
	return nil
}

func (s *ResellerCategoryService) find(ctx context.Context, tenantID, id uuid.UUID) (*reseller.ResellerCategory, error) {
	category, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if category.IsDeleted {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

func (s *ResellerCategoryService) ensureNameFree(ctx context.Context, tenantID uuid.UUID, name string) error {
	exists, err := s.repo.ExistsByName(ctx, tenantID, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Reseller category with this name already exists")
	}
	return nil
}
