package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/pkg/database"
)

// GormRelationRepository stores (user, recipe) pairs in one table. The
// composite unique index on the table is the only duplicate guard.
type GormRelationRepository struct {
	db     *gorm.DB
	newRow func(userID string, recipeID uint) interface{}
}

// NewGormFavoriteRepository creates the favorites relation repository.
func NewGormFavoriteRepository(db *gorm.DB) *GormRelationRepository {
	return &GormRelationRepository{
		db: db,
		newRow: func(userID string, recipeID uint) interface{} {
			return &domain.FavoriteModel{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add inserts the pair; an existing pair yields ErrRelationExists.
func (r *GormRelationRepository) Add(ctx context.Context, userID string, recipeID uint) error {
	if err := r.db.WithContext(ctx).Create(r.newRow(userID, recipeID)).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrRelationExists
		}
		return err
	}
	return nil
}

// Remove deletes the pair; a missing pair yields ErrRelationNotFound.
func (r *GormRelationRepository) Remove(ctx context.Context, userID string, recipeID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow("", 0))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}

// Contains reports, for each recipe id, whether the user holds the pair.
func (r *GormRelationRepository) Contains(ctx context.Context, userID string, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		result[id] = false
	}

	if userID == "" || len(recipeIDs) == 0 {
		return result, nil
	}

	var found []uint
	err := r.db.WithContext(ctx).Model(r.newRow("", 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// GormCartRepository is the shopping cart relation.
type GormCartRepository struct {
	*GormRelationRepository
}

// NewGormCartRepository creates the shopping cart repository.
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{
		GormRelationRepository: &GormRelationRepository{
			db: db,
			newRow: func(userID string, recipeID uint) interface{} {
				return &domain.ShoppingCartModel{UserID: userID, RecipeID: recipeID}
			},
		},
	}
}

// Lines joins the user's cart with recipe ingredient lines. Each line is
// one ingredient of one recipe; aggregation happens in the caller.
func (r *GormCartRepository) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := r.db.WithContext(ctx).Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Ensure interface is satisfied at compile time.
var (
	_ RelationRepository = (*GormRelationRepository)(nil)
	_ CartRepository     = (*GormCartRepository)(nil)
)
