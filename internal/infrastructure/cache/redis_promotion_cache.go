package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/redis/go-redis/v9"
)

const defaultPromotionKeyPrefix = "petshop:promotions:active:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPromotionCache stores active-promotion snapshots as JSON in Redis so
// that every instance shares them
type RedisPromotionCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisPromotionCache creates a cache on an existing client
func NewRedisPromotionCache(client redis.UniversalClient, keyPrefix string) *RedisPromotionCache {
	if keyPrefix == "" {
		keyPrefix = defaultPromotionKeyPrefix
	}
	return &RedisPromotionCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisPromotionCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get loads the tenant's snapshot
func (c *RedisPromotionCache) Get(ctx context.Context, tenantID uuid.UUID) ([]promotion.Promotion, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read promotion snapshot: %w", err)
	}

	var promotions []promotion.Promotion
	if err := json.Unmarshal(data, &promotions); err != nil {
		return nil, false, fmt.Errorf("failed to decode promotion snapshot: %w", err)
	}
	return promotions, true, nil
}

// Set stores the snapshot with ttl. A non-positive ttl deletes the key.
func (c *RedisPromotionCache) Set(ctx context.Context, tenantID uuid.UUID, promotions []promotion.Promotion, ttl time.Duration) error {
	if ttl <= 0 {
		return c.Invalidate(ctx, tenantID)
	}
	if promotions == nil {
		promotions = []promotion.Promotion{}
	}
	data, err := json.Marshal(promotions)
	if err != nil {
		return fmt.Errorf("failed to encode promotion snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write promotion snapshot: %w", err)
	}
	return nil
}

// Invalidate deletes the tenant's snapshot
func (c *RedisPromotionCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to delete promotion snapshot: %w", err)
	}
	return nil
}

// Ensure RedisPromotionCache implements SnapshotCache
var _ promotion.SnapshotCache = (*RedisPromotionCache)(nil)
