package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultSnapshotTTL bounds how long an active-promotion snapshot is reused
const DefaultSnapshotTTL = 30 * time.Second

// ActivePromotionSource loads the active-promotion snapshot of a tenant.
// It reads through the snapshot cache and falls back to the repository.
// A cache failure is logged and treated as a miss.
type ActivePromotionSource struct {
	repo    promotion.PromotionRepository
	cache   promotion.SnapshotCache
	ttl     time.Duration
	metrics *telemetry.PricingMetrics
	logger  *zap.Logger
}

// PromotionSourceOption configures an ActivePromotionSource
type PromotionSourceOption func(*ActivePromotionSource)

// WithSnapshotCache enables read-through caching
func WithSnapshotCache(cache promotion.SnapshotCache) PromotionSourceOption {
	return func(s *ActivePromotionSource) {
		s.cache = cache
	}
}

// WithSnapshotTTL overrides DefaultSnapshotTTL
func WithSnapshotTTL(ttl time.Duration) PromotionSourceOption {
	return func(s *ActivePromotionSource) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSourceMetrics records cache hits and misses
func WithSourceMetrics(m *telemetry.PricingMetrics) PromotionSourceOption {
	return func(s *ActivePromotionSource) {
		s.metrics = m
	}
}

// WithSourceLogger sets the logger
func WithSourceLogger(logger *zap.Logger) PromotionSourceOption {
	return func(s *ActivePromotionSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewActivePromotionSource creates a source reading from repo
func NewActivePromotionSource(repo promotion.PromotionRepository, opts ...PromotionSourceOption) *ActivePromotionSource {
	s := &ActivePromotionSource{
		repo:   repo,
		ttl:    DefaultSnapshotTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the promotions active at now, newest first
func (s *ActivePromotionSource) Load(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]promotion.Promotion, error) {
	if s.cache != nil {
		promos, ok, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Promotion cache read failed, loading from database",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
		s.metrics.RecordCacheLookup(ctx, ok && err == nil)
		if ok && err == nil {
			return promos, nil
		}
	}

	promos, err := s.repo.FindActiveAt(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if ttl := promotion.SnapshotExpiry(promos, now, s.ttl); ttl > 0 {
			if err := s.cache.Set(ctx, tenantID, promos, ttl); err != nil {
				s.logger.Warn("Failed to cache promotion snapshot",
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
			}
		}
	}
	return promos, nil
}

// Invalidate drops the cached snapshot of a tenant
func (s *ActivePromotionSource) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, tenantID)
}
