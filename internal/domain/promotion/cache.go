package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SnapshotCache stores each tenant's active-promotion snapshot, already in
// resolver priority order. A miss is reported with ok=false, never an error.
type SnapshotCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (promotions []Promotion, ok bool, err error)
	Set(ctx context.Context, tenantID uuid.UUID, promotions []Promotion, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// SnapshotExpiry caps ttl so that a cached snapshot never outlives the first
// promotion in it to end. It returns zero when the snapshot must not be cached.
func SnapshotExpiry(promotions []Promotion, now time.Time, ttl time.Duration) time.Duration {
	for i := range promotions {
		if remaining := promotions[i].EndDate.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl < 0 {
		return 0
	}
	return ttl
}

// InvalidationMessage is broadcast to other instances after a promotion write
type InvalidationMessage struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	Timestamp int64     `json:"timestamp"`
}
