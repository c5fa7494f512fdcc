package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
)

// PromotionRepository defines the interface for promotion persistence.
// Soft-deleted promotions are never returned.
type PromotionRepository interface {
	// FindByIDForTenant finds a promotion by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Promotion, error)

	// FindAllForTenant lists promotions for a tenant.
	// Supported filter keys: "is_active" (bool).
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Promotion, error)

	// CountForTenant counts promotions matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindActiveAt returns promotions whose flag is on and whose window
	// contains at, newest first. The ordering is the resolver's priority order.
	FindActiveAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]Promotion, error)

	// Save creates or updates a promotion together with its product list
	Save(ctx context.Context, promotion *Promotion) error
}
