package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/i18n"
	"github.com/weiawesome/foodgram/internal/service"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/middleware"
	"github.com/weiawesome/foodgram/pkg/response"
)

// Services groups the business services the HTTP layer calls into.
type Services struct {
	Users    service.UserService
	Catalog  service.CatalogService
	Recipes  service.RecipeService
	Social   service.SocialGraphService
	Shopping service.ShoppingService
}

// Handler handles HTTP requests for the recipe API.
type Handler struct {
	users    service.UserService
	catalog  service.CatalogService
	recipes  service.RecipeService
	social   service.SocialGraphService
	shopping service.ShoppingService

	authMiddleware *middleware.AuthMiddleware
	pagination     config.PaginationConfig
}

// NewHandler creates a new HTTP handler.
func NewHandler(svcs Services, authMiddleware *middleware.AuthMiddleware, pagination config.PaginationConfig) *Handler {
	if pagination.DefaultLimit <= 0 {
		pagination.DefaultLimit = 6
	}
	if pagination.MaxLimit < pagination.DefaultLimit {
		pagination.MaxLimit = pagination.DefaultLimit
	}
	return &Handler{
		users:          svcs.Users,
		catalog:        svcs.Catalog,
		recipes:        svcs.Recipes,
		social:         svcs.Social,
		shopping:       svcs.Shopping,
		authMiddleware: authMiddleware,
		pagination:     pagination,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	requireAuth := h.authMiddleware.RequireAuth()
	optionalAuth := h.authMiddleware.OptionalAuth()
	requireAdmin := h.authMiddleware.RequireRole(middleware.RoleAdmin)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/refresh", h.RefreshToken)
			auth.POST("/logout", requireAuth, h.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("", optionalAuth, h.ListUsers)
			users.GET("/me", requireAuth, h.GetMe)
			users.PUT("/me/password", requireAuth, h.ChangePassword)
			users.GET("/subscriptions", requireAuth, h.Subscriptions)
			users.GET("/:id", optionalAuth, h.GetUser)
			users.POST("/:id/subscribe", requireAuth, h.Subscribe)
			users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", h.ListIngredients)
			ingredients.GET("/:id", h.GetIngredient)
			ingredients.POST("", requireAuth, requireAdmin, h.CreateIngredient)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", h.ListTags)
			tags.GET("/:id", h.GetTag)
			tags.POST("", requireAuth, requireAdmin, h.CreateTag)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", optionalAuth, h.ListRecipes)
			recipes.POST("", requireAuth, h.CreateRecipe)
			recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
			recipes.GET("/:id", optionalAuth, h.GetRecipe)
			recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
			recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
			recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
			recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", requireAuth, h.AddToCart)
			recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromCart)
		}
	}
}

type errorMapping struct {
	target  error
	respond func(*gin.Context, string)
	message string
}

// errorMappings translates service errors into responses. Unlisted errors
// are logged and answered with 500.
var errorMappings = []errorMapping{
	{service.ErrInvalidCredentials, response.Unauthorized, i18n.MsgInvalidCredentials},
	{service.ErrInvalidToken, response.Unauthorized, i18n.MsgInvalidToken},
	{service.ErrWrongPassword, response.BadRequest, i18n.MsgWrongPassword},
	{service.ErrSelfFollow, response.BadRequest, i18n.MsgSelfSubscribe},
	{shopping.ErrUnsupportedFormat, response.BadRequest, i18n.MsgUnsupportedFormat},

	{service.ErrNotAuthor, response.Forbidden, i18n.MsgNotAuthor},

	{service.ErrUserNotFound, response.NotFound, i18n.MsgUserNotFound},
	{service.ErrRecipeNotFound, response.NotFound, i18n.MsgRecipeNotFound},
	{service.ErrIngredientNotFound, response.NotFound, i18n.MsgIngredientNotFound},
	{service.ErrTagNotFound, response.NotFound, i18n.MsgTagNotFound},
	{service.ErrNotFavorited, response.NotFound, i18n.MsgNotFavorited},
	{service.ErrNotInCart, response.NotFound, i18n.MsgNotInCart},
	{service.ErrNotFollowing, response.NotFound, i18n.MsgNotSubscribed},

	{service.ErrEmailExists, response.Conflict, i18n.MsgEmailExists},
	{service.ErrUsernameExists, response.Conflict, i18n.MsgUsernameExists},
	{service.ErrAlreadyFavorited, response.Conflict, i18n.MsgAlreadyFavorited},
	{service.ErrAlreadyInCart, response.Conflict, i18n.MsgAlreadyInCart},
	{service.ErrAlreadyFollowing, response.Conflict, i18n.MsgAlreadySubscribed},
	{service.ErrTagExists, response.Conflict, i18n.MsgTagExists},
	{service.ErrIngredientExists, response.Conflict, i18n.MsgIngredientExists},

	{shopping.ErrMissingGlyph, response.UnprocessableEntity, i18n.MsgMissingGlyph},
}

// fail writes the response for a service error. msg describes the failed
// operation in the log when the error is unexpected.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.BadRequest(c, i18n.T(c, i18n.MsgValidation)+": "+verr.Detail)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			m.respond(c, i18n.T(c, m.message))
			return
		}
	}

	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Msg(msg)
	response.InternalError(c, i18n.T(c, i18n.MsgInternal))
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("invalid request body")
		response.BadRequest(c, i18n.T(c, i18n.MsgInvalidBody))
		return false
	}
	return true
}

// uintParam parses a numeric path parameter. Anything else cannot name an
// existing row, so it is answered with 404 and notFound.
func uintParam(c *gin.Context, name, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, i18n.T(c, notFound))
		return 0, false
	}
	return uint(id), true
}

// userParam validates a user id path parameter.
func userParam(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.NotFound(c, i18n.T(c, i18n.MsgUserNotFound))
		return "", false
	}
	return id.String(), true
}

// requireUser returns the authenticated caller.
func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, i18n.T(c, i18n.MsgUnauthorized))
		return "", false
	}
	return userID, true
}

// pageParams reads page (1-based) and limit, clamping limit to the
// configured maximum.
func (h *Handler) pageParams(c *gin.Context) (page, limit int) {
	page = queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(c, "limit", h.pagination.DefaultLimit)
	if limit < 1 {
		limit = h.pagination.DefaultLimit
	}
	if limit > h.pagination.MaxLimit {
		limit = h.pagination.MaxLimit
	}
	return page, limit
}

func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryFlag(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}
