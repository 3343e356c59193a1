package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-encoded values under namespaced keys.
type Cache interface {
	// Get decodes the value stored at key into dest, or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	BuildKey(parts ...string) string
	Close() error
}

func buildKey(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}
