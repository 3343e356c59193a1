// Command import-ingredients loads a JSON array of
// {"name": ..., "measurement_unit": ...} objects into the ingredient
// registry. Rows already present are skipped, so reruns are safe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/weiawesome/foodgram/internal/cache"
	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/service"
	"github.com/weiawesome/foodgram/pkg/database"
	pkglog "github.com/weiawesome/foodgram/pkg/log"
)

func main() {
	path := flag.String("file", "data/ingredients.json", "JSON file with the ingredients to import")
	timeout := flag.Duration("timeout", 5*time.Minute, "import deadline")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	cfg.Log.ServiceName = "import-ingredients"
	pkglog.Init(cfg.Log)
	logger := pkglog.L()

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("failed to open ingredients file")
	}
	defer f.Close()

	items, err := readIngredients(f)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("failed to parse ingredients file")
	}

	db, err := database.New(cfg.Database.Database())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}

	registryCache := registryCache(cfg)
	defer registryCache.Close()

	catalog := service.NewCatalogService(
		repository.NewGormIngredientRepository(db),
		repository.NewGormTagRepository(db),
		registryCache,
		cfg.Cache.RegistryTTL,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = pkglog.WithLogger(ctx, logger)

	inserted, err := catalog.ImportIngredients(ctx, items)
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}

	logger.Info().Int("read", len(items)).Int64("inserted", inserted).Msg("ingredients imported")
}

// registryCache connects to Redis when configured so the import
// invalidates what the API server has cached.
func registryCache(cfg *config.Config) cache.Cache {
	if cfg.Redis.Address == "" {
		return cache.NewNopCache(cfg.Cache.KeyPrefix)
	}
	rc, err := cache.NewRedisCache(cfg.Redis, cfg.Cache.KeyPrefix)
	if err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Msg("redis unavailable; cached ingredient lists expire by TTL")
		return cache.NewNopCache(cfg.Cache.KeyPrefix)
	}
	return rc
}

func readIngredients(r io.Reader) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return items, nil
}
