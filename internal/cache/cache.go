// Package cache stores rendered digits of π so that repeated server
// requests for the same number of decimals skip the computation.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// KeyPrefix namespaces every key written by picalc.
const KeyPrefix = "picalc:digits:"

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "picalc_cache_lookups_total",
		Help: "Cache lookups by result (hit, miss, error).",
	},
	[]string{"result"},
)

// Cache stores digit strings by key.
type Cache interface {
	// GetValue returns the value stored under key. A miss returns "" and a
	// nil error.
	GetValue(ctx context.Context, key string) (string, error)
	// SetValue stores value under key.
	SetValue(ctx context.Context, key, value string) error
}

// Key returns the cache key for digits decimals. The digits do not depend on
// the engine or the worker count, so neither is part of the key.
func Key(digits int) string {
	return KeyPrefix + strconv.Itoa(digits)
}

// NoopCache never stores anything.
type NoopCache struct{}

// NewNoopCache returns a cache that always misses.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// GetValue always misses.
func (*NoopCache) GetValue(context.Context, string) (string, error) { return "", nil }

// SetValue drops value.
func (*NoopCache) SetValue(context.Context, string, string) error { return nil }

// RedisCache is a Cache backed by Redis through a connection pool.
type RedisCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithTTL expires entries after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisCache) { r.ttl = ttl }
}

// WithMaxIdle sets the number of idle pooled connections.
func WithMaxIdle(n int) RedisOption {
	return func(r *RedisCache) { r.pool.MaxIdle = n }
}

// NewRedisCache returns a cache talking to the Redis server at address.
// Connections are dialed lazily.
func NewRedisCache(address string, options ...RedisOption) *RedisCache {
	cache := &RedisCache{
		pool: &redis.Pool{
			MaxIdle:     4,
			IdleTimeout: 5 * time.Minute,
			DialContext: func(ctx context.Context) (redis.Conn, error) {
				return redis.DialContext(ctx, "tcp", address)
			},
		},
	}
	for _, option := range options {
		option(cache)
	}
	return cache
}

// GetValue returns the value stored under key, or "" when absent.
func (r *RedisCache) GetValue(ctx context.Context, key string) (string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		lookupsTotal.WithLabelValues("error").Inc()
		return "", apperrors.WrapError(err, "redis connection")
	}
	defer conn.Close()

	value, err := redis.String(conn.Do("GET", key))
	switch {
	case errors.Is(err, redis.ErrNil):
		lookupsTotal.WithLabelValues("miss").Inc()
		return "", nil
	case err != nil:
		lookupsTotal.WithLabelValues("error").Inc()
		return "", apperrors.WrapError(err, "redis GET %s", key)
	}
	lookupsTotal.WithLabelValues("hit").Inc()
	return value, nil
}

// SetValue stores value under key, with the configured TTL if any.
func (r *RedisCache) SetValue(ctx context.Context, key, value string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return apperrors.WrapError(err, "redis connection")
	}
	defer conn.Close()

	if r.ttl > 0 {
		_, err = conn.Do("SET", key, value, "PX", r.ttl.Milliseconds())
	} else {
		_, err = conn.Do("SET", key, value)
	}
	return apperrors.WrapError(err, "redis SET %s", key)
}

// Close releases the pooled connections.
func (r *RedisCache) Close() error {
	return r.pool.Close()
}
