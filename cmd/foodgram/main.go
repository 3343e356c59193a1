package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/foodgram/internal/cache"
	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/events"
	"github.com/weiawesome/foodgram/internal/handler"
	"github.com/weiawesome/foodgram/internal/i18n"
	"github.com/weiawesome/foodgram/internal/media"
	"github.com/weiawesome/foodgram/internal/metrics"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/service"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/internal/sweeper"
	"github.com/weiawesome/foodgram/pkg/database"
	"github.com/weiawesome/foodgram/pkg/jwt"
	pkglog "github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/middleware"
	"github.com/weiawesome/foodgram/pkg/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	if cfg.Log.ServiceName == "" {
		cfg.Log.ServiceName = "foodgram"
	}
	pkglog.Init(cfg.Log)
	logger := pkglog.L()

	// 3. Init DB
	db, err := database.New(cfg.Database.Database())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")

	// 4. Registry cache: Redis when configured
	var registryCache cache.Cache
	if cfg.Redis.Address != "" {
		rc, err := cache.NewRedisCache(cfg.Redis, cfg.Cache.KeyPrefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		registryCache = rc
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	} else {
		registryCache = cache.NewNopCache(cfg.Cache.KeyPrefix)
		logger.Warn().Msg("REDIS_ADDRESS not configured; registry cache disabled")
	}
	defer registryCache.Close()

	// 5. Domain event publisher: Kafka when configured
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Brokers != "" {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create kafka publisher, events disabled")
		} else {
			publisher = kp
			logger.Info().Str("topic", cfg.Kafka.Topic).Msg("kafka publisher started")
		}
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not configured; events disabled")
	}

	// 6. Image storage
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init storage")
	}
	images := media.NewProcessor(store, cfg.Image)

	// 7. Shopping list font
	font, err := loadFont(cfg.Shopping.FontPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Shopping.FontPath).Msg("failed to load shopping list font")
	}
	renderer := shopping.NewRenderer(font, cfg.Shopping.Title)

	// 8. Tokens and the revocation sweeper
	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token manager")
	}
	sweep := sweeper.New(tokens, cfg.Auth.RevocationSweepTTL)
	sweep.Start()

	// 9. Repositories and services
	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	recipeRepo := repository.NewGormRecipeRepository(db)
	ingredientRepo := repository.NewGormIngredientRepository(db)
	tagRepo := repository.NewGormTagRepository(db)
	cartRepo := repository.NewGormCartRepository(db)

	svcs := handler.Services{
		Users:   service.NewUserService(userRepo, followRepo, tokens, cfg.Auth.BcryptCost),
		Catalog: service.NewCatalogService(ingredientRepo, tagRepo, registryCache, cfg.Cache.RegistryTTL),
		Recipes: service.NewRecipeService(service.RecipeDeps{
			Recipes:     recipeRepo,
			Users:       userRepo,
			Follows:     followRepo,
			Ingredients: ingredientRepo,
			Tags:        tagRepo,
			Favorites:   repository.NewGormFavoriteRepository(db),
			Cart:        cartRepo,
			Images:      images,
			Publisher:   publisher,
		}),
		Social:   service.NewSocialGraphService(followRepo, userRepo, recipeRepo, images, publisher),
		Shopping: service.NewShoppingService(cartRepo, renderer),
	}

	// 10. Setup Gin router + HTTP server
	gin.SetMode(cfg.Server.Mode)
	httpHandler := handler.NewHandler(svcs, middleware.NewAuthMiddleware(tokens), cfg.Pagination)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(metrics.GinMiddleware())
	r.Use(i18n.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if local, ok := store.(*storage.LocalStorage); ok {
		r.Static(local.PublicPrefix(), local.BasePath())
	}
	httpHandler.RegisterRoutes(r)

	// 11. Start server goroutine
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("foodgram starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 12. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		// HTTP drains before the publisher closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
		}

		sweep.Stop()
		<-sweep.Done()

		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing event publisher")
		}
		cancel()
	}()

	select {
	case <-shutdownDone:
		logger.Info().Msg("foodgram stopped")
	case <-time.After(timeout + 5*time.Second):
		logger.Warn().Dur("timeout", timeout).Msg("shutdown timed out")
	}
}

func loadFont(path string) (*shopping.Font, error) {
	if path == "" {
		return shopping.DefaultFont()
	}
	return shopping.LoadFontFile(path)
}
