package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"hostelhub/internal/kvstore"

	"github.com/sirupsen/logrus"
)

// Cache is a best-effort JSON cache over the key-value store. Store errors
// are logged and collapsed into a miss or a no-op: a cache outage degrades
// performance, never correctness.
type Cache struct {
	kv  *kvstore.Store
	log *logrus.Logger
}

func New(kv *kvstore.Store, log *logrus.Logger) *Cache {
	return &Cache{kv: kv, log: log}
}

// Key joins the prefix and non-empty parts with ':' so invalidation can
// target the prefix with a pattern.
func Key(prefix string, parts ...string) string {
	joined := []string{prefix}
	for _, part := range parts {
		if part == "" {
			continue
		}
		joined = append(joined, part)
	}
	return strings.Join(joined, ":")
}

// Get unmarshals the cached value into dest and reports whether it was a
// hit. Misses and store errors both report false.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.kv.Get(ctx, key)
	if err != nil {
		if !kvstoreMiss(err) {
			c.log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry corrupt")
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return false
	}
	if err := c.kv.SetEX(ctx, key, string(data), ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache set failed")
		return false
	}
	return true
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.kv.Del(ctx, key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache delete failed")
	}
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if _, err := c.kv.DelPattern(ctx, pattern); err != nil {
		c.log.WithError(err).WithField("pattern", pattern).Warn("cache pattern delete failed")
	}
}

// Invalidate clears every key pattern in the named group.
func (c *Cache) Invalidate(ctx context.Context, group string) {
	g, ok := Groups[group]
	if !ok {
		c.log.WithField("group", group).Warn("unknown invalidation group")
		return
	}
	for _, pattern := range g.KeyPatterns {
		c.DeletePattern(ctx, pattern)
	}
}

// GetOrSet returns the cached value for key, or invokes fetch on a miss and
// caches the result. Concurrent misses may both fetch; callers must pass
// idempotent reads.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}
	if !isNil(value) {
		c.Set(ctx, key, value, ttl)
	}
	return value, nil
}

func kvstoreMiss(err error) bool {
	return errors.Is(err, kvstore.ErrNotFound)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
