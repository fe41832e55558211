package services

import (
	"context"
	"testing"
	"time"

	"translategw/internal/config"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	key1 := CacheKey("hello", "en", "fr")
	key2 := CacheKey("  hello  ", "en", "fr")
	key3 := CacheKey("hello", "en", "de")

	assert.Equal(t, key1, key2, "surrounding whitespace must not change the key")
	assert.NotEqual(t, key1, key3, "language pair is part of the key")
	assert.Contains(t, key1, ":en:fr")
}

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache(0)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", "bonjour"))
	value, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "bonjour", value)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "bonjour"))
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestRedisCache_GetSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, time.Hour, testLogger())
	ctx := context.Background()

	mock.ExpectSet("k", "bonjour", time.Hour).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "k", "bonjour"))

	mock.ExpectGet("k").SetVal("bonjour")
	value, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "bonjour", value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_MissAndFailureDegradeToMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, time.Hour, testLogger())
	ctx := context.Background()

	mock.ExpectGet("absent").RedisNil()
	_, ok := cache.Get(ctx, "absent")
	assert.False(t, ok)

	mock.ExpectGet("broken").SetErr(assert.AnError)
	_, ok = cache.Get(ctx, "broken")
	assert.False(t, ok, "redis failures must degrade to cache misses")
}

func TestNewTranslationCache(t *testing.T) {
	logger := testLogger()

	assert.Nil(t, NewTranslationCache(nil, logger))
	assert.Nil(t, NewTranslationCache(&config.CacheConfig{Enabled: false}, logger))

	memory := NewTranslationCache(&config.CacheConfig{Enabled: true, Backend: "memory", TTL: time.Hour}, logger)
	assert.IsType(t, &MemoryCache{}, memory)

	redis := NewTranslationCache(&config.CacheConfig{Enabled: true, Backend: "redis", RedisAddr: "localhost:6379", TTL: time.Hour}, logger)
	assert.IsType(t, &RedisCache{}, redis)
}
