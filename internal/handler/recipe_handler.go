package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/i18n"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/middleware"
	"github.com/weiawesome/foodgram/pkg/response"
)

// ListRecipes handles GET /api/v1/recipes.
//
// Query: page, limit, author (user id), tags (repeatable slug),
// is_favorited=1 and is_in_shopping_cart=1 (authenticated callers only).
func (h *Handler) ListRecipes(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	page, limit := h.pageParams(c)

	filter := domain.RecipeFilter{
		AuthorID: c.Query("author"),
		TagSlugs: c.QueryArray("tags"),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
	if viewerID != "" {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = viewerID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		h.fail(c, err, "list recipes failed")
		return
	}

	response.Paginated(c, recipes, total, page, limit)
}

// GetRecipe handles GET /api/v1/recipes/:id.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := uintParam(c, "id", i18n.MsgRecipeNotFound)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.fail(c, err, "get recipe failed")
		return
	}

	response.Success(c, recipe)
}

// CreateRecipe handles POST /api/v1/recipes.
func (h *Handler) CreateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req domain.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err, "create recipe failed")
		return
	}

	response.Created(c, recipe)
}

// UpdateRecipe handles PATCH /api/v1/recipes/:id. Only the author may
// update; the image may be omitted to keep the current one.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id", i18n.MsgRecipeNotFound)
	if !ok {
		return
	}

	var req domain.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.fail(c, err, "update recipe failed")
		return
	}

	response.Success(c, recipe)
}

// DeleteRecipe handles DELETE /api/v1/recipes/:id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id", i18n.MsgRecipeNotFound)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "delete recipe failed")
		return
	}

	response.NoContent(c)
}

// AddFavorite handles POST /api/v1/recipes/:id/favorite.
func (h *Handler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.recipes.AddFavorite, "add favorite failed")
}

// RemoveFavorite handles DELETE /api/v1/recipes/:id/favorite.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.recipes.RemoveFavorite, "remove favorite failed")
}

// AddToCart handles POST /api/v1/recipes/:id/shopping_cart.
func (h *Handler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.recipes.AddToCart, "add to cart failed")
}

// RemoveFromCart handles DELETE /api/v1/recipes/:id/shopping_cart.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.recipes.RemoveFromCart, "remove from cart failed")
}

type addFunc func(ctx context.Context, userID string, recipeID uint) (*domain.RecipeShort, error)

type removeFunc func(ctx context.Context, userID string, recipeID uint) error

func (h *Handler) addRelation(c *gin.Context, add addFunc, msg string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id", i18n.MsgRecipeNotFound)
	if !ok {
		return
	}

	short, err := add(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err, msg)
		return
	}

	response.Created(c, short)
}

func (h *Handler) removeRelation(c *gin.Context, remove removeFunc, msg string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id", i18n.MsgRecipeNotFound)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, msg)
		return
	}

	response.NoContent(c)
}

// DownloadShoppingCart handles GET /api/v1/recipes/download_shopping_cart.
// format is pdf (default) or txt.
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	format, err := shopping.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err, "parse format failed")
		return
	}

	doc, err := h.shopping.Download(c.Request.Context(), userID, format)
	if err != nil {
		h.fail(c, err, "download shopping cart failed")
		return
	}

	l := log.Ctx(c.Request.Context())
	l.Debug().Str(log.FieldUserID, userID).Str("format", string(format)).Int("bytes", len(doc.Data)).Msg("shopping list rendered")

	response.Attachment(c, doc.Filename, doc.ContentType, doc.Data)
}
