package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/foodgram/internal/audit"
	"github.com/weiawesome/foodgram/internal/cache"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/metrics"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/pkg/log"
)

const (
	resourceIngredients = "ingredients"
	resourceTags        = "tags"
)

// catalogServiceImpl reads the ingredient and tag registries through a
// read-through cache. Concurrent misses on one key share a single load.
type catalogServiceImpl struct {
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	sf          singleflight.Group
}

// NewCatalogService creates a new registry service.
func NewCatalogService(ingredients repository.IngredientRepository, tags repository.TagRepository, registryCache cache.Cache, cacheTTL time.Duration) CatalogService {
	return &catalogServiceImpl{
		ingredients: ingredients,
		tags:        tags,
		cache:       registryCache,
		cacheTTL:    cacheTTL,
	}
}

func (s *catalogServiceImpl) ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	prefix = strings.TrimSpace(prefix)
	key := s.cache.BuildKey(resourceIngredients, "list", strings.ToLower(prefix))
	return loadCached(ctx, s, resourceIngredients, key, func(ctx context.Context) ([]domain.Ingredient, error) {
		return s.ingredients.List(ctx, prefix)
	})
}

func (s *catalogServiceImpl) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	key := s.cache.BuildKey(resourceIngredients, "id", strconv.FormatUint(uint64(id), 10))
	ingredient, err := loadCached(ctx, s, resourceIngredients, key, func(ctx context.Context) (*domain.Ingredient, error) {
		return s.ingredients.GetByID(ctx, id)
	})
	if errors.Is(err, repository.ErrIngredientNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Uint(log.FieldIngredientID, id).Msg("failed to load ingredient")
	}
	return ingredient, err
}

func (s *catalogServiceImpl) CreateIngredient(ctx context.Context, actorID string, req *domain.CreateIngredientRequest) (*domain.Ingredient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	ingredient := &domain.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrIngredientExists) {
			return nil, ErrIngredientExists
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create ingredient")
		return nil, err
	}

	s.invalidate(ctx, resourceIngredients)
	audit.LogTarget(ctx, audit.ActionCreateIngredient, actorID, strconv.FormatUint(uint64(ingredient.ID), 10), "ingredient created")
	return ingredient, nil
}

// ImportIngredients bulk-loads registry entries, skipping duplicates, and
// returns how many were new.
func (s *catalogServiceImpl) ImportIngredients(ctx context.Context, items []domain.Ingredient) (int64, error) {
	l := log.Ctx(ctx)

	valid := make([]domain.Ingredient, 0, len(items))
	for i, item := range items {
		req := domain.CreateIngredientRequest{
			Name:            strings.TrimSpace(item.Name),
			MeasurementUnit: strings.TrimSpace(item.MeasurementUnit),
		}
		if err := validateStruct(&req); err != nil {
			l.Warn().Err(err).Int("index", i).Msg("skipping invalid ingredient")
			continue
		}
		valid = append(valid, domain.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit})
	}
	if len(valid) == 0 {
		return 0, nil
	}

	inserted, err := s.ingredients.BulkInsert(ctx, valid)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.invalidate(ctx, resourceIngredients)
	}
	return inserted, nil
}

func (s *catalogServiceImpl) ListTags(ctx context.Context) ([]domain.Tag, error) {
	key := s.cache.BuildKey(resourceTags, "list")
	return loadCached(ctx, s, resourceTags, key, func(ctx context.Context) ([]domain.Tag, error) {
		return s.tags.List(ctx)
	})
}

func (s *catalogServiceImpl) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	key := s.cache.BuildKey(resourceTags, "id", strconv.FormatUint(uint64(id), 10))
	tag, err := loadCached(ctx, s, resourceTags, key, func(ctx context.Context) (*domain.Tag, error) {
		return s.tags.GetByID(ctx, id)
	})
	if errors.Is(err, repository.ErrTagNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Uint(log.FieldTagID, id).Msg("failed to load tag")
	}
	return tag, err
}

func (s *catalogServiceImpl) CreateTag(ctx context.Context, actorID string, req *domain.CreateTagRequest) (*domain.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Color = strings.ToUpper(strings.TrimSpace(req.Color))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	tag := &domain.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return nil, ErrTagExists
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create tag")
		return nil, err
	}

	s.invalidate(ctx, resourceTags)
	audit.LogTarget(ctx, audit.ActionCreateTag, actorID, strconv.FormatUint(uint64(tag.ID), 10), "tag created")
	return tag, nil
}

func (s *catalogServiceImpl) invalidate(ctx context.Context, resource string) {
	if err := s.cache.DeletePrefix(ctx, s.cache.BuildKey(resource)); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("resource", resource).Msg("cache invalidation error")
	}
}

func (s *catalogServiceImpl) asyncCacheSet(ctx context.Context, key string, value interface{}) {
	ctx = log.Detached(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}

// loadCached returns the cached value at key or loads, caches and returns it.
// Errors are never cached.
func loadCached[T any](ctx context.Context, s *catalogServiceImpl, resource, key string, load func(context.Context) (T, error)) (T, error) {
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		var cached T
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			metrics.RecordCache(resource, "hit")
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("key", key).Msg("cache get error")
		}
		metrics.RecordCache(resource, "miss")

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		s.asyncCacheSet(ctx, key, value)
		return value, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
