package cache

import (
	"context"
	"time"
)

// NopCache is used when no Redis address is configured. Every Get misses.
type NopCache struct {
	prefix string
}

func NewNopCache(prefix string) *NopCache {
	return &NopCache{prefix: prefix}
}

func (c *NopCache) BuildKey(parts ...string) string {
	return buildKey(c.prefix, parts...)
}

func (c *NopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrCacheMiss
}

func (c *NopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *NopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (c *NopCache) DeletePrefix(ctx context.Context, prefix string) error {
	return nil
}

func (c *NopCache) Close() error {
	return nil
}

var _ Cache = (*NopCache)(nil)
