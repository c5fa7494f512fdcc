package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/promotion"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryPromotionCache keeps active-promotion snapshots in process memory.
// It serves as the only cache for single-instance deployments and as L1 in
// front of Redis otherwise.
type InMemoryPromotionCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]snapshotEntry
	logger  *zap.Logger
	now     func() time.Time
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type snapshotEntry struct {
	promotions []promotion.Promotion
	expiresAt  time.Time
}

// InMemoryPromotionCacheOption is a functional option for configuring the cache
type InMemoryPromotionCacheOption func(*InMemoryPromotionCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPromotionCacheOption {
	return func(c *InMemoryPromotionCache) {
		c.logger = logger
	}
}

// WithInMemoryClock replaces time.Now, mainly for tests
func WithInMemoryClock(now func() time.Time) InMemoryPromotionCacheOption {
	return func(c *InMemoryPromotionCache) {
		c.now = now
	}
}

// NewInMemoryPromotionCache creates the cache and starts its cleanup loop.
// Call Stop to release the goroutine.
func NewInMemoryPromotionCache(opts ...InMemoryPromotionCacheOption) *InMemoryPromotionCache {
	c := &InMemoryPromotionCache{
		entries: make(map[uuid.UUID]snapshotEntry),
		logger:  zap.NewNop(),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get returns a copy of the tenant's snapshot if it has not expired
func (c *InMemoryPromotionCache) Get(_ context.Context, tenantID uuid.UUID) ([]promotion.Promotion, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	atomic.AddInt64(&c.hits, 1)
	return append([]promotion.Promotion(nil), entry.promotions...), true, nil
}

// Set stores the snapshot. A non-positive ttl drops any existing entry.
func (c *InMemoryPromotionCache) Set(_ context.Context, tenantID uuid.UUID, promotions []promotion.Promotion, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.entries, tenantID)
		return nil
	}
	c.entries[tenantID] = snapshotEntry{
		promotions: append([]promotion.Promotion(nil), promotions...),
		expiresAt:  c.now().Add(ttl),
	}
	return nil
}

// Invalidate drops the tenant's snapshot
func (c *InMemoryPromotionCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, tenantID)
	c.mu.Unlock()
	return nil
}

// InvalidateAll drops every snapshot
func (c *InMemoryPromotionCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]snapshotEntry)
	c.mu.Unlock()
}

// Stats returns hit and miss counts
func (c *InMemoryPromotionCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Len returns the number of stored snapshots, expired ones included
func (c *InMemoryPromotionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (c *InMemoryPromotionCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

func (c *InMemoryPromotionCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryPromotionCache) removeExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for tenantID, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, tenantID)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("Removed expired promotion snapshots", zap.Int("count", removed))
	}
}

// Ensure InMemoryPromotionCache implements SnapshotCache
var _ promotion.SnapshotCache = (*InMemoryPromotionCache)(nil)
