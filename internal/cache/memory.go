package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a thread-safe in-memory cache implementation.
type MemoryCache struct {
	data       sync.Map
	defaultTTL time.Duration
	maxSize    int
	count      atomic.Int64
	stopCh     chan struct{}
	closed     atomic.Bool
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}

	return c
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	v, ok := c.data.Load(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	entry := v.(memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.data.Delete(key)
		c.count.Add(-1)
		return nil, ErrCacheMiss
	}

	return entry.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if c.maxSize > 0 && c.count.Load() >= int64(c.maxSize) {
		if _, exists := c.data.Load(key); !exists {
			c.evictExpired()
			if c.count.Load() >= int64(c.maxSize) {
				// Full of live entries; drop the write rather than grow unbounded.
				return nil
			}
		}
	}

	if _, loaded := c.data.Swap(key, memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}); !loaded {
		c.count.Add(1)
	}
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if _, loaded := c.data.LoadAndDelete(key); loaded {
		c.count.Add(-1)
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.data.Range(func(key, _ any) bool {
		c.data.Delete(key)
		return true
	})
	c.count.Store(0)
	return nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) evictExpired() {
	now := time.Now()
	c.data.Range(func(key, v any) bool {
		if now.After(v.(memoryEntry).expiresAt) {
			if _, loaded := c.data.LoadAndDelete(key); loaded {
				c.count.Add(-1)
			}
		}
		return true
	})
}
