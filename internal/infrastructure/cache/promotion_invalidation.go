package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/petshop/backend/internal/domain/promotion"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultInvalidationChannel = "petshop:promotions:invalidate"

// RedisPromotionInvalidator broadcasts promotion writes over Redis Pub/Sub so
// every instance can drop its local snapshot
type RedisPromotionInvalidator struct {
	client    redis.UniversalClient
	channel   string
	logger    *zap.Logger
	mu        sync.Mutex
	cancelFn  context.CancelFunc
	isRunning bool
}

// RedisPromotionInvalidatorOption is a functional option for configuring the invalidator
type RedisPromotionInvalidatorOption func(*RedisPromotionInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel
func WithInvalidatorChannel(channel string) RedisPromotionInvalidatorOption {
	return func(i *RedisPromotionInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger
func WithInvalidatorLogger(logger *zap.Logger) RedisPromotionInvalidatorOption {
	return func(i *RedisPromotionInvalidator) {
		i.logger = logger
	}
}

// NewRedisPromotionInvalidator creates an invalidator on a shared client
func NewRedisPromotionInvalidator(client redis.UniversalClient, opts ...RedisPromotionInvalidatorOption) *RedisPromotionInvalidator {
	i := &RedisPromotionInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish announces that a tenant's promotions changed
func (i *RedisPromotionInvalidator) Publish(ctx context.Context, msg promotion.InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish promotion invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation message: %w", err)
	}
	return nil
}

// Subscribe blocks, calling callback for every message until ctx is done or
// Close is called
func (i *RedisPromotionInvalidator) Subscribe(ctx context.Context, callback func(promotion.InvalidationMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.isRunning = true
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("Subscribed to promotion invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Promotion invalidation channel closed")
				return nil
			}
			var m promotion.InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			callback(m)
		}
	}
}

// Close stops a running subscription
func (i *RedisPromotionInvalidator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancelFn != nil {
		i.cancelFn()
	}
	return nil
}
