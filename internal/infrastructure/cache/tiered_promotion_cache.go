package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"go.uber.org/zap"
)

// InvalidationPublisher announces promotion writes to other instances
type InvalidationPublisher interface {
	Publish(ctx context.Context, msg promotion.InvalidationMessage) error
}

// TieredPromotionCache reads through a local L1 and a shared L2. Writes go to
// both, and invalidations are broadcast so peers drop their L1 copy.
type TieredPromotionCache struct {
	l1        *InMemoryPromotionCache
	l2        promotion.SnapshotCache
	publisher InvalidationPublisher
	l1TTL     time.Duration
	logger    *zap.Logger
}

// TieredPromotionCacheOption is a functional option for configuring the cache
type TieredPromotionCacheOption func(*TieredPromotionCache)

// WithTieredLogger sets the logger
func WithTieredLogger(logger *zap.Logger) TieredPromotionCacheOption {
	return func(c *TieredPromotionCache) {
		c.logger = logger
	}
}

// WithL1TTL caps how long a snapshot lives in local memory
func WithL1TTL(ttl time.Duration) TieredPromotionCacheOption {
	return func(c *TieredPromotionCache) {
		c.l1TTL = ttl
	}
}

// NewTieredPromotionCache creates a tiered cache. publisher may be nil.
func NewTieredPromotionCache(l1 *InMemoryPromotionCache, l2 promotion.SnapshotCache, publisher InvalidationPublisher, opts ...TieredPromotionCacheOption) *TieredPromotionCache {
	c := &TieredPromotionCache{
		l1:        l1,
		l2:        l2,
		publisher: publisher,
		l1TTL:     5 * time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get tries L1, then L2, warming L1 on an L2 hit. L2 errors degrade to a miss.
func (c *TieredPromotionCache) Get(ctx context.Context, tenantID uuid.UUID) ([]promotion.Promotion, bool, error) {
	if promos, ok, _ := c.l1.Get(ctx, tenantID); ok {
		return promos, true, nil
	}

	promos, ok, err := c.l2.Get(ctx, tenantID)
	if err != nil {
		c.logger.Warn("L2 promotion cache read failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, false, nil
	}
	if !ok {
		return nil, false, nil
	}
	_ = c.l1.Set(ctx, tenantID, promos, c.l1TTL)
	return promos, true, nil
}

// Set writes both tiers. L1 keeps the shorter of ttl and the L1 cap.
func (c *TieredPromotionCache) Set(ctx context.Context, tenantID uuid.UUID, promos []promotion.Promotion, ttl time.Duration) error {
	l1TTL := ttl
	if c.l1TTL < l1TTL {
		l1TTL = c.l1TTL
	}
	_ = c.l1.Set(ctx, tenantID, promos, l1TTL)
	if err := c.l2.Set(ctx, tenantID, promos, ttl); err != nil {
		c.logger.Warn("L2 promotion cache write failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
	return nil
}

// Invalidate clears both tiers and tells peers to clear their L1
func (c *TieredPromotionCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	_ = c.l1.Invalidate(ctx, tenantID)
	if err := c.l2.Invalidate(ctx, tenantID); err != nil {
		return err
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, promotion.InvalidationMessage{TenantID: tenantID}); err != nil {
			c.logger.Warn("Failed to broadcast promotion invalidation", zap.Error(err))
		}
	}
	return nil
}

// HandleInvalidation drops the local copy named by a peer's message
func (c *TieredPromotionCache) HandleInvalidation(msg promotion.InvalidationMessage) {
	if msg.TenantID == uuid.Nil {
		c.l1.InvalidateAll()
		return
	}
	_ = c.l1.Invalidate(context.Background(), msg.TenantID)
	c.logger.Debug("Dropped local promotion snapshot",
		zap.String("tenant_id", msg.TenantID.String()))
}

// Ensure TieredPromotionCache implements SnapshotCache
var _ promotion.SnapshotCache = (*TieredPromotionCache)(nil)
