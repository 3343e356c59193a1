package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/foodgram/internal/audit"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/events"
	"github.com/weiawesome/foodgram/internal/media"
	"github.com/weiawesome/foodgram/internal/metrics"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/pkg/log"
)

// relation pairs a (user, recipe) relation store with the errors its
// duplicate and missing cases surface as.
type relation struct {
	repo       repository.RelationRepository
	errExists  error
	errMissing error
}

type recipeServiceImpl struct {
	recipes     repository.RecipeRepository
	users       repository.UserRepository
	follows     repository.FollowRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	favorites   relation
	cart        relation
	images      ImageStore
	publisher   events.Publisher
}

// RecipeDeps groups the collaborators of the recipe service.
type RecipeDeps struct {
	Recipes     repository.RecipeRepository
	Users       repository.UserRepository
	Follows     repository.FollowRepository
	Ingredients repository.IngredientRepository
	Tags        repository.TagRepository
	Favorites   repository.RelationRepository
	Cart        repository.RelationRepository
	Images      ImageStore
	Publisher   events.Publisher
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(deps RecipeDeps) RecipeService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &recipeServiceImpl{
		recipes:     deps.Recipes,
		users:       deps.Users,
		follows:     deps.Follows,
		ingredients: deps.Ingredients,
		tags:        deps.Tags,
		favorites:   relation{repo: deps.Favorites, errExists: ErrAlreadyFavorited, errMissing: ErrNotFavorited},
		cart:        relation{repo: deps.Cart, errExists: ErrAlreadyInCart, errMissing: ErrNotInCart},
		images:      deps.Images,
		publisher:   publisher,
	}
}

// List returns a page of recipes, newest first. Favorite and cart filters
// only apply for authenticated viewers.
func (s *recipeServiceImpl) List(ctx context.Context, viewerID string, filter domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	if viewerID == "" {
		filter.FavoritedBy = ""
		filter.InCartOf = ""
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.decorate(ctx, viewerID, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *recipeServiceImpl) Get(ctx context.Context, viewerID string, id uint) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	list := []domain.Recipe{*recipe}
	if err := s.decorate(ctx, viewerID, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *recipeServiceImpl) Create(ctx context.Context, authorID string, req *domain.RecipeRequest) (*domain.Recipe, error) {
	l := log.Ctx(ctx)

	if err := s.validateRecipe(ctx, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, invalid("image: failed required")
	}

	imageKey, err := s.saveImage(ctx, authorID, req.Image)
	if err != nil {
		return nil, err
	}

	id, err := s.recipes.Create(ctx, recipeData(authorID, imageKey, req))
	if err != nil {
		s.images.Delete(ctx, imageKey)
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to create recipe")
		return nil, err
	}

	audit.LogTarget(ctx, audit.ActionCreateRecipe, authorID, recipeKey(id), "recipe created")
	s.publish(ctx, events.TypeRecipeCreated, authorID, id)

	return s.Get(ctx, authorID, id)
}

// Update replaces a recipe. Existence and authorship are checked before
// the body is validated.
func (s *recipeServiceImpl) Update(ctx context.Context, actorID string, id uint, req *domain.RecipeRequest) (*domain.Recipe, error) {
	l := log.Ctx(ctx)

	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}
	if err := s.validateRecipe(ctx, req); err != nil {
		return nil, err
	}

	var imageKey string
	if strings.TrimSpace(req.Image) != "" {
		var err error
		if imageKey, err = s.saveImage(ctx, actorID, req.Image); err != nil {
			return nil, err
		}
	}

	prevImage, err := s.recipes.Update(ctx, id, recipeData(actorID, imageKey, req))
	if err != nil {
		s.images.Delete(ctx, imageKey)
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		l.Error().Err(err).Uint(log.FieldRecipeID, id).Msg("failed to update recipe")
		return nil, err
	}
	if imageKey != "" && prevImage != imageKey {
		s.images.Delete(ctx, prevImage)
	}

	audit.LogTarget(ctx, audit.ActionUpdateRecipe, actorID, recipeKey(id), "recipe updated")
	s.publish(ctx, events.TypeRecipeUpdated, actorID, id)

	return s.Get(ctx, actorID, id)
}

// Delete removes a recipe together with its favorites and cart entries.
func (s *recipeServiceImpl) Delete(ctx context.Context, actorID string, id uint) error {
	l := log.Ctx(ctx)

	if err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}

	imageKey, err := s.recipes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		l.Error().Err(err).Uint(log.FieldRecipeID, id).Msg("failed to delete recipe")
		return err
	}
	s.images.Delete(ctx, imageKey)

	audit.LogTarget(ctx, audit.ActionDeleteRecipe, actorID, recipeKey(id), "recipe deleted")
	s.publish(ctx, events.TypeRecipeDeleted, actorID, id)
	return nil
}

func (s *recipeServiceImpl) AddFavorite(ctx context.Context, userID string, recipeID uint) (*domain.RecipeShort, error) {
	return s.addRelation(ctx, s.favorites, userID, recipeID)
}

func (s *recipeServiceImpl) RemoveFavorite(ctx context.Context, userID string, recipeID uint) error {
	return s.removeRelation(ctx, s.favorites, userID, recipeID)
}

func (s *recipeServiceImpl) AddToCart(ctx context.Context, userID string, recipeID uint) (*domain.RecipeShort, error) {
	return s.addRelation(ctx, s.cart, userID, recipeID)
}

func (s *recipeServiceImpl) RemoveFromCart(ctx context.Context, userID string, recipeID uint) error {
	return s.removeRelation(ctx, s.cart, userID, recipeID)
}

func (s *recipeServiceImpl) addRelation(ctx context.Context, rel relation, userID string, recipeID uint) (*domain.RecipeShort, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if err := rel.repo.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return nil, rel.errExists
		}
		return nil, err
	}

	short := s.short(ctx, recipe)
	return &short, nil
}

func (s *recipeServiceImpl) removeRelation(ctx context.Context, rel relation, userID string, recipeID uint) error {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRecipeNotFound
	}

	if err := rel.repo.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return rel.errMissing
		}
		return err
	}
	return nil
}

// authorize loads the recipe and checks the actor wrote it.
func (s *recipeServiceImpl) authorize(ctx context.Context, actorID string, id uint) error {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.Author.ID != actorID {
		return ErrNotAuthor
	}
	return nil
}

// validateRecipe checks field constraints, rejects duplicate references and
// confirms every referenced ingredient and tag exists.
func (s *recipeServiceImpl) validateRecipe(ctx context.Context, req *domain.RecipeRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return err
	}

	ingredientIDs := make([]uint, len(req.Ingredients))
	seen := make(map[uint]bool, len(req.Ingredients))
	for i, item := range req.Ingredients {
		if seen[item.ID] {
			return invalid("ingredients: duplicate ingredient %d", item.ID)
		}
		seen[item.ID] = true
		ingredientIDs[i] = item.ID
	}

	seen = make(map[uint]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seen[id] {
			return invalid("tags: duplicate tag %d", id)
		}
		seen[id] = true
	}

	var missingIngredients, missingTags []uint
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		missingIngredients, err = s.ingredients.MissingIDs(gCtx, ingredientIDs)
		return err
	})
	g.Go(func() error {
		var err error
		missingTags, err = s.tags.MissingIDs(gCtx, req.Tags)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if len(missingIngredients) > 0 {
		return invalid("ingredients: unknown ingredient %s", joinIDs(missingIngredients))
	}
	if len(missingTags) > 0 {
		return invalid("tags: unknown tag %s", joinIDs(missingTags))
	}
	return nil
}

func (s *recipeServiceImpl) saveImage(ctx context.Context, authorID, encoded string) (string, error) {
	key, err := s.images.Save(ctx, authorID, encoded)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) || errors.Is(err, media.ErrImageTooLarge) {
			return "", invalid("image: %v", err)
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to save recipe image")
		return "", err
	}
	return key, nil
}

// decorate fills author profiles, image URLs and the viewer's favorite and
// cart flags in place.
func (s *recipeServiceImpl) decorate(ctx context.Context, viewerID string, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	seenAuthors := make(map[string]bool, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		if id := recipes[i].Author.ID; !seenAuthors[id] {
			seenAuthors[id] = true
			authorIDs = append(authorIDs, id)
		}
	}

	var (
		authors   map[string]*domain.User
		following = map[string]bool{}
		favorited = map[uint]bool{}
		inCart    = map[uint]bool{}
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.users.GetByIDs(gCtx, authorIDs)
		return err
	})
	if viewerID != "" {
		g.Go(func() error {
			var err error
			following, err = s.follows.BatchIsFollowing(gCtx, viewerID, authorIDs)
			return err
		})
		g.Go(func() error {
			var err error
			favorited, err = s.favorites.repo.Contains(gCtx, viewerID, recipeIDs)
			return err
		})
		g.Go(func() error {
			var err error
			inCart, err = s.cart.repo.Contains(gCtx, viewerID, recipeIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range recipes {
		r := &recipes[i]
		authorID := r.Author.ID
		if author, ok := authors[authorID]; ok {
			r.Author = author.ToResponse()
		}
		r.Author.IsSubscribed = viewerID != authorID && following[authorID]
		r.Image = s.images.URL(ctx, r.ImageKey)
		r.IsFavorited = favorited[r.ID]
		r.IsInShoppingCart = inCart[r.ID]
	}
	return nil
}

func (s *recipeServiceImpl) short(ctx context.Context, r *domain.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.images.URL(ctx, r.ImageKey),
		CookingTime: r.CookingTime,
	}
}

func (s *recipeServiceImpl) publish(ctx context.Context, eventType, actorID string, recipeID uint) {
	event := events.New(eventType, recipeKey(recipeID), actorID)
	event.RecipeID = recipeID

	err := s.publisher.Publish(ctx, event)
	metrics.RecordEvent(eventType, err)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("type", eventType).Uint(log.FieldRecipeID, recipeID).Msg("failed to publish event")
	}
}

func recipeData(authorID, imageKey string, req *domain.RecipeRequest) *domain.RecipeData {
	return &domain.RecipeData{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageKey,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		TagIDs:      req.Tags,
	}
}

func recipeKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
