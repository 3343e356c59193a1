package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/i18n"
	"github.com/weiawesome/foodgram/pkg/middleware"
	"github.com/weiawesome/foodgram/pkg/response"
)

// ListIngredients handles GET /api/v1/ingredients?name=<prefix>.
func (h *Handler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.fail(c, err, "list ingredients failed")
		return
	}

	response.Success(c, ingredients)
}

// GetIngredient handles GET /api/v1/ingredients/:id.
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := uintParam(c, "id", i18n.MsgIngredientNotFound)
	if !ok {
		return
	}

	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get ingredient failed")
		return
	}

	response.Success(c, ingredient)
}

// CreateIngredient handles POST /api/v1/ingredients (admin).
func (h *Handler) CreateIngredient(c *gin.Context) {
	var req domain.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := h.catalog.CreateIngredient(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		h.fail(c, err, "create ingredient failed")
		return
	}

	response.Created(c, ingredient)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list tags failed")
		return
	}

	response.Success(c, tags)
}

// GetTag handles GET /api/v1/tags/:id.
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := uintParam(c, "id", i18n.MsgTagNotFound)
	if !ok {
		return
	}

	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get tag failed")
		return
	}

	response.Success(c, tag)
}

// CreateTag handles POST /api/v1/tags (admin).
func (h *Handler) CreateTag(c *gin.Context) {
	var req domain.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.catalog.CreateTag(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		h.fail(c, err, "create tag failed")
		return
	}

	response.Created(c, tag)
}
