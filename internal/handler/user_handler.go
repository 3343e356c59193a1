package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/pkg/middleware"
	"github.com/weiawesome/foodgram/pkg/response"
)

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := h.pageParams(c)

	users, total, err := h.users.ListUsers(c.Request.Context(), middleware.GetUserID(c), (page-1)*limit, limit)
	if err != nil {
		h.fail(c, err, "list users failed")
		return
	}

	response.Paginated(c, users, total, page, limit)
}

// GetUser handles GET /api/v1/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := userParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), middleware.GetUserID(c), userID)
	if err != nil {
		h.fail(c, err, "get user failed")
		return
	}

	response.Success(c, user)
}

// GetMe handles GET /api/v1/users/me.
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		h.fail(c, err, "get current user failed")
		return
	}

	response.Success(c, user)
}

// ChangePassword handles PUT /api/v1/users/me/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req domain.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.fail(c, err, "change password failed")
		return
	}

	response.NoContent(c)
}

// Subscriptions handles GET /api/v1/users/subscriptions.
func (h *Handler) Subscriptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, limit := h.pageParams(c)

	subs, total, err := h.social.Subscriptions(c.Request.Context(), userID, (page-1)*limit, limit, queryInt(c, "recipes_limit", 0))
	if err != nil {
		h.fail(c, err, "list subscriptions failed")
		return
	}

	response.Paginated(c, subs, total, page, limit)
}

// Subscribe handles POST /api/v1/users/:id/subscribe.
func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := userParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.social.Follow(c.Request.Context(), userID, authorID, queryInt(c, "recipes_limit", 0))
	if err != nil {
		h.fail(c, err, "subscribe failed")
		return
	}

	response.Created(c, sub)
}

// Unsubscribe handles DELETE /api/v1/users/:id/subscribe.
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := userParam(c, "id")
	if !ok {
		return
	}

	if err := h.social.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		h.fail(c, err, "unsubscribe failed")
		return
	}

	response.NoContent(c)
}
