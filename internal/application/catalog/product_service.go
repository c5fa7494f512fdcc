package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create creates a new product with its variants
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureCategory(ctx, tenantID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, tenantID, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.Description, req.CategoryID, toVariantInputs(req.Variants))
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySlug retrieves a product by its slug
func (s *ProductService) GetBySlug(ctx context.Context, tenantID uuid.UUID, productSlug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, tenantID, productSlug)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products for the admin console, including inactive ones
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	page, pageSize := paging(filter.Page, filter.PageSize)
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = catalog.ProductStatus(filter.Status)
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update updates product fields and optionally replaces its variants
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, description, categoryID := product.Name, product.Description, product.CategoryID
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		categoryID = *req.CategoryID
	}
	if slug.Make(name) != product.Slug {
		if err := s.ensureSlugFree(ctx, tenantID, name, product.ID); err != nil {
			return nil, err
		}
	}

	if name != product.Name || description != product.Description || categoryID != product.CategoryID {
		if err := product.Update(name, description, categoryID); err != nil {
			return nil, err
		}
	}
	if req.Variants != nil {
		if err := product.ReplaceVariants(toVariantInputs(req.Variants)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate shows a product on the storefront
func (s *ProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, (*catalog.Product).Activate)
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, (*catalog.Product).Deactivate)
}

// Delete soft-deletes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := s.mutate(ctx, tenantID, id, (*catalog.Product).SoftDelete)
	return err
}

// BulkUpdateStock sets stock per SKU. Each SKU is handled on its own; a
// failing SKU is reported and does not stop the rest.
func (s *ProductService) BulkUpdateStock(ctx context.Context, tenantID uuid.UUID, req BulkStockRequest) ([]StockUpdateResult, error) {
	results := make([]StockUpdateResult, 0, len(req.Items))
	for _, item := range req.Items {
		result := StockUpdateResult{SKU: item.SKU}
		if err := s.updateStock(ctx, tenantID, item); err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) {
				return nil, err
			}
			result.Error = de.Message
		} else {
			result.Updated = true
		}
		results = append(results, result)
	}

	s.logger.Info("Bulk stock update finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("items", len(req.Items)))
	return results, nil
}

func (s *ProductService) updateStock(ctx context.Context, tenantID uuid.UUID, item StockUpdate) error {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, item.SKU)
	if err != nil {
		return err
	}
	if err := product.SetStock(item.SKU, item.Stock); err != nil {
		return err
	}
	return s.productRepo.Save(ctx, product)
}

func (s *ProductService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, tenantID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.productRepo.FindBySlug(ctx, tenantID, slug.Make(name))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}
	return nil
}
