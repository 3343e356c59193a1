package service

import (
	"context"
	"errors"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNotAuthor      = errors.New("only the author can modify this recipe")

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient already exists")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTagExists          = errors.New("tag already exists")

	ErrAlreadyFavorited = errors.New("recipe already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart    = errors.New("recipe already in shopping cart")
	ErrNotInCart        = errors.New("recipe is not in shopping cart")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)

// UserService handles accounts and authentication.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	// GetUser returns userID as seen by viewerID, who may be empty.
	GetUser(ctx context.Context, viewerID, userID string) (*domain.UserResponse, error)
	ListUsers(ctx context.Context, viewerID string, offset, limit int) ([]domain.UserResponse, int64, error)
	ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error
	// GrantRole adds role to the user registered under email. Tokens issued
	// before the grant keep their old roles.
	GrantRole(ctx context.Context, email, role string) error
}

// CatalogService serves the ingredient and tag registries.
type CatalogService interface {
	ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error)
	CreateIngredient(ctx context.Context, actorID string, req *domain.CreateIngredientRequest) (*domain.Ingredient, error)
	ImportIngredients(ctx context.Context, items []domain.Ingredient) (int64, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id uint) (*domain.Tag, error)
	CreateTag(ctx context.Context, actorID string, req *domain.CreateTagRequest) (*domain.Tag, error)
}

// RecipeService handles recipes and the per-user favorite and cart relations.
// viewerID may be empty for anonymous reads.
type RecipeService interface {
	List(ctx context.Context, viewerID string, filter domain.RecipeFilter) ([]domain.Recipe, int64, error)
	Get(ctx context.Context, viewerID string, id uint) (*domain.Recipe, error)
	Create(ctx context.Context, authorID string, req *domain.RecipeRequest) (*domain.Recipe, error)
	Update(ctx context.Context, actorID string, id uint, req *domain.RecipeRequest) (*domain.Recipe, error)
	Delete(ctx context.Context, actorID string, id uint) error

	AddFavorite(ctx context.Context, userID string, recipeID uint) (*domain.RecipeShort, error)
	RemoveFavorite(ctx context.Context, userID string, recipeID uint) error
	AddToCart(ctx context.Context, userID string, recipeID uint) (*domain.RecipeShort, error)
	RemoveFromCart(ctx context.Context, userID string, recipeID uint) error
}

// SocialGraphService handles follow relationships.
type SocialGraphService interface {
	Follow(ctx context.Context, userID, authorID string, recipesLimit int) (*domain.Subscription, error)
	Unfollow(ctx context.Context, userID, authorID string) error
	Subscriptions(ctx context.Context, userID string, offset, limit, recipesLimit int) ([]domain.Subscription, int64, error)
}

// ShoppingService builds the aggregated shopping list of a user's cart.
type ShoppingService interface {
	List(ctx context.Context, userID string) ([]shopping.Item, error)
	Download(ctx context.Context, userID string, format shopping.Format) (*shopping.Document, error)
}

// TokenIssuer is the part of the JWT manager the user service needs.
type TokenIssuer interface {
	GenerateTokenPair(userID, email, username string, roles []string) (*jwt.TokenPair, error)
	RefreshTokens(refreshToken string) (*jwt.TokenPair, *jwt.Claims, error)
	RevokeUserTokens(userID string)
}

// ImageStore persists recipe images.
type ImageStore interface {
	Save(ctx context.Context, authorID, encoded string) (string, error)
	URL(ctx context.Context, key string) string
	Delete(ctx context.Context, key string)
}
