package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/cache"
	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/events"
	"github.com/weiawesome/foodgram/internal/media"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/internal/testutil"
	"github.com/weiawesome/foodgram/pkg/jwt"
	"github.com/weiawesome/foodgram/pkg/storage"
)

type recordingPublisher struct {
	events []*events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event *events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	users    UserService
	catalog  CatalogService
	recipes  RecipeService
	social   SocialGraphService
	shopping ShoppingService

	store     *storage.LocalStorage
	tokens    *jwt.Manager
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)

	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	tokens, err := jwt.NewManager("test-secret", time.Hour, 24*time.Hour, "foodgram-test")
	require.NoError(t, err)

	font, err := shopping.DefaultFont()
	require.NoError(t, err)

	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	recipeRepo := repository.NewGormRecipeRepository(db)
	ingredientRepo := repository.NewGormIngredientRepository(db)
	tagRepo := repository.NewGormTagRepository(db)
	cartRepo := repository.NewGormCartRepository(db)

	images := media.NewProcessor(store, config.ImageConfig{MaxWidth: 64, MaxHeight: 64, Quality: 80, MaxBytes: 1 << 20})
	publisher := &recordingPublisher{}

	return &fixture{
		users:   NewUserService(userRepo, followRepo, tokens, 4),
		catalog: NewCatalogService(ingredientRepo, tagRepo, cache.NewNopCache("test"), time.Minute),
		recipes: NewRecipeService(RecipeDeps{
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
		social:   NewSocialGraphService(followRepo, userRepo, recipeRepo, images, publisher),
		shopping: NewShoppingService(cartRepo, shopping.NewRenderer(font, "Список покупок")),

		store:     store,
		tokens:    tokens,
		publisher: publisher,
	}
}

func (f *fixture) register(t *testing.T, username string) *domain.AuthResponse {
	t.Helper()

	resp, err := f.users.Register(context.Background(), &domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "password123",
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) ingredient(t *testing.T, name, unit string) uint {
	t.Helper()

	ing, err := f.catalog.CreateIngredient(context.Background(), "admin", &domain.CreateIngredientRequest{Name: name, MeasurementUnit: unit})
	require.NoError(t, err)
	return ing.ID
}

func (f *fixture) tag(t *testing.T, slug string) uint {
	t.Helper()

	tag, err := f.catalog.CreateTag(context.Background(), "admin", &domain.CreateTagRequest{
		Name:  slug,
		Color: "#E26C2D",
		Slug:  slug,
	})
	require.NoError(t, err)
	return tag.ID
}

func (f *fixture) recipeRequest(t *testing.T, name string, tags []uint, lines ...domain.IngredientAmount) *domain.RecipeRequest {
	t.Helper()

	return &domain.RecipeRequest{
		Ingredients: lines,
		Tags:        tags,
		Image:       testutil.PNGDataURI(t, 128, 96),
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 30,
	}
}

func (f *fixture) createRecipe(t *testing.T, authorID string, req *domain.RecipeRequest) *domain.Recipe {
	t.Helper()

	recipe, err := f.recipes.Create(context.Background(), authorID, req)
	require.NoError(t, err)
	return recipe
}
