package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/petshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PromotionCacheFactory builds the promotion snapshot cache from configuration
type PromotionCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PromotionCacheFactoryOption is a functional option for configuring the factory
type PromotionCacheFactoryOption func(*PromotionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PromotionCacheFactoryOption {
	return func(f *PromotionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PromotionCacheFactoryOption {
	return func(f *PromotionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPromotionCacheFactory creates a new factory
func NewPromotionCacheFactory(cfg config.RedisConfig, opts ...PromotionCacheFactoryOption) *PromotionCacheFactory {
	f := &PromotionCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PromotionCache is a built cache together with the resources behind it
type PromotionCache struct {
	promotion.SnapshotCache
	Backend string

	l1          *InMemoryPromotionCache
	client      *redis.Client
	invalidator *RedisPromotionInvalidator
}

// Close stops background work and closes the Redis client if there is one
func (c *PromotionCache) Close() error {
	var errs []error
	if c.invalidator != nil {
		errs = append(errs, c.invalidator.Close())
	}
	if c.l1 != nil {
		c.l1.Stop()
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Ping checks the Redis connection. The in-memory backend is always up.
func (c *PromotionCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Create returns a tiered Redis cache when Redis is configured and reachable,
// otherwise an in-memory cache. An empty Redis host selects in-memory without
// trying to connect.
func (f *PromotionCacheFactory) Create(ctx context.Context) (*PromotionCache, error) {
	l1 := NewInMemoryPromotionCache(WithInMemoryLogger(f.logger))
	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory promotion cache")
		return &PromotionCache{SnapshotCache: l1, Backend: "memory", l1: l1}, nil
	}

	client, err := NewRedisClient(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			l1.Stop()
			return nil, fmt.Errorf("redis required for promotion cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory promotion cache. "+
			"Promotion edits reach other instances only after the cache TTL.",
			zap.Error(err))
		return &PromotionCache{SnapshotCache: l1, Backend: "memory", l1: l1}, nil
	}

	invalidator := NewRedisPromotionInvalidator(client, WithInvalidatorLogger(f.logger))
	tiered := NewTieredPromotionCache(l1, NewRedisPromotionCache(client, ""), invalidator, WithTieredLogger(f.logger))

	go func() {
		if err := invalidator.Subscribe(ctx, tiered.HandleInvalidation); err != nil && !errors.Is(err, context.Canceled) {
			f.logger.Error("Promotion invalidation subscription ended", zap.Error(err))
		}
	}()

	f.logger.Info("Using Redis promotion cache", zap.String("addr", f.redisConfig.Addr()))
	return &PromotionCache{
		SnapshotCache: tiered,
		Backend:       "redis",
		l1:            l1,
		client:        client,
		invalidator:   invalidator,
	}, nil
}
