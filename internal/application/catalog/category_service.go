package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.ensureSlugFree(ctx, tenantID, req.Name); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.CreatedBy != nil {
		category.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves categories ordered by sort order
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	page, pageSize := paging(filter.Page, filter.PageSize)
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   filter.Search,
		OrderBy:  "sort_order",
		OrderDir: "asc",
	}

	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != "" && slug.Make(req.Name) != category.Slug {
		if err := s.ensureSlugFree(ctx, tenantID, req.Name); err != nil {
			return nil, err
		}
		name = req.Name
	} else if req.Name != "" {
		name = req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}
	if name != category.Name || description != category.Description {
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete soft-deletes a category
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := category.SoftDelete(); err != nil {
		return err
	}
	return s.categoryRepo.Save(ctx, category)
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, tenantID uuid.UUID, name string) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, tenantID, slug.Make(name))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}
	return nil
}
