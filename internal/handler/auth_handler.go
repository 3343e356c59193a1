package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/pkg/response"
)

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "register failed")
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}

	response.Success(c, result)
}

// RefreshToken handles POST /api/v1/auth/refresh.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.users.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "refresh token failed")
		return
	}

	response.Success(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.users.Logout(c.Request.Context(), userID); err != nil {
		h.fail(c, err, "logout failed")
		return
	}

	response.NoContent(c)
}
