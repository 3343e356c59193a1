package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/cache"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/testutil"
)

// memoryCache stores JSON like the Redis cache does.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) BuildKey(parts ...string) string {
	return "test:" + strings.Join(parts, ":")
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = data
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func TestCatalogCaching(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ingredients := repository.NewGormIngredientRepository(db)
	mem := newMemoryCache()
	catalog := NewCatalogService(ingredients, repository.NewGormTagRepository(db), mem, time.Minute)

	_, err := catalog.CreateIngredient(ctx, "admin", &domain.CreateIngredientRequest{Name: "Milk", MeasurementUnit: "ml"})
	require.NoError(t, err)

	list, err := catalog.ListIngredients(ctx, "Mi")
	require.NoError(t, err)
	require.Len(t, list, 1)

	key := mem.BuildKey(resourceIngredients, "list", "mi")
	require.Eventually(t, func() bool { return mem.has(key) }, time.Second, 5*time.Millisecond)

	// Written behind the service's back: served from cache until invalidated.
	require.NoError(t, ingredients.Create(ctx, &domain.Ingredient{Name: "Mint", MeasurementUnit: "g"}))

	list, err = catalog.ListIngredients(ctx, "mi")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = catalog.CreateIngredient(ctx, "admin", &domain.CreateIngredientRequest{Name: "Millet", MeasurementUnit: "g"})
	require.NoError(t, err)
	assert.False(t, mem.has(key))

	list, err = catalog.ListIngredients(ctx, "mi")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = catalog.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
	assert.False(t, mem.has(mem.BuildKey(resourceIngredients, "id", "999")), "errors are not cached")
}
