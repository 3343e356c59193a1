package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/foodgram/internal/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")

	ErrRecipeNotFound = errors.New("recipe not found")

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient already exists")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTagExists          = errors.New("tag already exists")

	ErrRelationExists   = errors.New("relation already exists")
	ErrRelationNotFound = errors.New("relation not found")

	ErrAlreadyFollowing = errors.New("already following")
	ErrFollowNotFound   = errors.New("follow relationship not found")
)

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRoles(ctx context.Context, id string, roles []string) error
}

// IngredientRepository reads and extends the ingredient registry.
type IngredientRepository interface {
	// List returns ingredients ordered by name, optionally restricted to
	// names starting with prefix (case-insensitive).
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*domain.Ingredient, error)
	// MissingIDs returns the subset of ids with no ingredient row.
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Create(ctx context.Context, ingredient *domain.Ingredient) error
	// BulkInsert inserts ingredients, skipping existing (name, unit) pairs,
	// and returns the number of new rows.
	BulkInsert(ctx context.Context, ingredients []domain.Ingredient) (int64, error)
}

// TagRepository reads and extends the tag registry.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id uint) (*domain.Tag, error)
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Create(ctx context.Context, tag *domain.Tag) error
}

// RecipeRepository persists recipes with their ingredient lines and tags.
// Returned recipes carry Author.ID and ImageKey; author profile, image URL
// and viewer flags are filled by the service.
type RecipeRepository interface {
	Create(ctx context.Context, data *domain.RecipeData) (uint, error)
	// Update replaces fields, tags and ingredient lines. An empty Image keeps
	// the current one. It returns the previous image key.
	Update(ctx context.Context, id uint, data *domain.RecipeData) (string, error)
	// Delete removes the recipe and every row referencing it, returning the
	// image key of the deleted recipe.
	Delete(ctx context.Context, id uint) (string, error)
	GetByID(ctx context.Context, id uint) (*domain.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error)
	// ListByAuthors returns up to limit most recent recipes per author,
	// without tags or ingredients. limit <= 0 means no limit.
	ListByAuthors(ctx context.Context, authorIDs []string, limit int) (map[string][]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []string) (map[string]int64, error)
}

// RelationRepository stores (user, recipe) pairs such as favorites and
// shopping cart entries.
type RelationRepository interface {
	Add(ctx context.Context, userID string, recipeID uint) error
	Remove(ctx context.Context, userID string, recipeID uint) error
	Contains(ctx context.Context, userID string, recipeIDs []uint) (map[uint]bool, error)
}

// CartRepository is the shopping cart relation plus its ingredient lines.
type CartRepository interface {
	RelationRepository
	// Lines returns every ingredient line of every recipe in the user's cart.
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
}

// FollowRepository defines persistence operations for follow relationships.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID string) error
	Unfollow(ctx context.Context, userID, authorID string) error
	BatchIsFollowing(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error)
	// ListFollowing returns the authors userID follows, most recent first.
	ListFollowing(ctx context.Context, userID string, offset, limit int) ([]string, int64, error)
}
