package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"translategw/internal/config"
	"translategw/internal/observability"

	"github.com/redis/go-redis/v9"
)

// TranslationCache stores completed translations keyed by text hash and
// language pair.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns false if absent or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a translation.
	Set(ctx context.Context, key, value string) error
}

// CacheKey generates a cache key from the text and language pair. Hashing the
// text keeps keys bounded regardless of input size.
func CacheKey(text, sourceLang, targetLang string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(hash[:]) + ":" + sourceLang + ":" + targetLang
}

// NewTranslationCache builds the cache named by the config, or nil when
// caching is disabled.
func NewTranslationCache(cfg *config.CacheConfig, logger *observability.Logger) TranslationCache {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if cfg.Backend == "redis" {
		return NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.TTL, logger)
	}
	return NewMemoryCache(cfg.TTL)
}

// cacheEntry holds a cached value with its insertion time
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewMemoryCache creates an in-memory cache. A non-positive ttl means entries
// never expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, timestamp: time.Now()}
	return nil
}

// Len returns the number of entries, including any not yet expired lazily
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache stores translations in Redis with a TTL. Redis failures degrade
// to cache misses; the translate path never fails because of the cache.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *observability.Logger
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger *observability.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "Translation cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return "", false
	}
	return value, true
}

// Set stores a value in Redis
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "Translation cache write failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}
