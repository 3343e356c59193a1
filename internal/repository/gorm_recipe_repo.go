package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/weiawesome/foodgram/internal/domain"
)

type authorCountRow struct {
	AuthorID string
	Total    int64
}

type recipeTagRow struct {
	RecipeID uint
	ID       uint
	Name     string
	Color    string
	Slug     string
}

type recipeLineRow struct {
	RecipeID        uint
	ID              uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// GormRecipeRepository implements RecipeRepository using GORM.
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GORM-backed recipe repository.
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create inserts the recipe with its ingredient lines and tags in one
// transaction.
func (r *GormRecipeRepository) Create(ctx context.Context, data *domain.RecipeData) (uint, error) {
	var id uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := domain.RecipeModel{
			AuthorID:    data.AuthorID,
			Name:        data.Name,
			Text:        data.Text,
			Image:       data.Image,
			CookingTime: data.CookingTime,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if err := replaceComposition(tx, model.ID, data); err != nil {
			return err
		}
		id = model.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces scalar fields, tags and ingredient lines. The previous
// image key is returned so the caller can drop a replaced image.
func (r *GormRecipeRepository) Update(ctx context.Context, id uint, data *domain.RecipeData) (string, error) {
	var prevImage string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.RecipeModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrRecipeNotFound
			}
			return err
		}
		prevImage = model.Image

		updates := map[string]interface{}{
			"name":         data.Name,
			"text":         data.Text,
			"cooking_time": data.CookingTime,
		}
		if data.Image != "" {
			updates["image"] = data.Image
		}
		if err := tx.Model(&model).Updates(updates).Error; err != nil {
			return err
		}
		return replaceComposition(tx, id, data)
	})
	if err != nil {
		return "", err
	}
	return prevImage, nil
}

// Delete removes the recipe together with its ingredient lines, tag links,
// favorites and cart entries.
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) (string, error) {
	var image string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.RecipeModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrRecipeNotFound
			}
			return err
		}
		image = model.Image

		dependents := []interface{}{
			&domain.RecipeIngredientModel{},
			&domain.RecipeTagModel{},
			&domain.FavoriteModel{},
			&domain.ShoppingCartModel{},
		}
		for _, dep := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(dep).Error; err != nil {
				return fmt.Errorf("delete dependents: %w", err)
			}
		}
		return tx.Delete(&domain.RecipeModel{}, "id = ?", id).Error
	})
	if err != nil {
		return "", err
	}
	return image, nil
}

// GetByID loads a recipe with its tags and ingredient lines.
func (r *GormRecipeRepository) GetByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var model domain.RecipeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	recipes := []domain.Recipe{toRecipe(&model)}
	if err := r.hydrate(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// Exists reports whether a recipe with id exists.
func (r *GormRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RecipeModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of recipes matching filter, newest first, and the
// total number of matches.
func (r *GormRecipeRepository) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.RecipeModel{})

	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("id IN (?)", sub)
	}
	if filter.FavoritedBy != "" {
		sub := r.db.Model(&domain.FavoriteModel{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy)
		query = query.Where("id IN (?)", sub)
	}
	if filter.InCartOf != "" {
		sub := r.db.Model(&domain.ShoppingCartModel{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf)
		query = query.Where("id IN (?)", sub)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []domain.RecipeModel
	err := query.Order("pub_date DESC").Order("id DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	recipes := make([]domain.Recipe, len(models))
	for i := range models {
		recipes[i] = toRecipe(&models[i])
	}
	if err := r.hydrate(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthors returns the newest recipes of each author.
func (r *GormRecipeRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit int) (map[string][]domain.Recipe, error) {
	result := make(map[string][]domain.Recipe, len(authorIDs))
	for _, authorID := range authorIDs {
		query := r.db.WithContext(ctx).
			Where("author_id = ?", authorID).
			Order("pub_date DESC").Order("id DESC")
		if limit > 0 {
			query = query.Limit(limit)
		}

		var models []domain.RecipeModel
		if err := query.Find(&models).Error; err != nil {
			return nil, err
		}

		recipes := make([]domain.Recipe, len(models))
		for i := range models {
			recipes[i] = toRecipe(&models[i])
		}
		result[authorID] = recipes
	}
	return result, nil
}

// CountByAuthors returns the number of recipes per author.
func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(authorIDs))
	for _, id := range authorIDs {
		result[id] = 0
	}
	if len(authorIDs) == 0 {
		return result, nil
	}

	var rows []authorCountRow
	err := r.db.WithContext(ctx).Model(&domain.RecipeModel{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.AuthorID] = row.Total
	}
	return result, nil
}

// hydrate loads tags and ingredient lines for recipes in two queries.
func (r *GormRecipeRepository) hydrate(ctx context.Context, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uint, len(recipes))
	index := make(map[uint]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
	}

	var tagRows []recipeTagRow
	err := r.db.WithContext(ctx).Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&tagRows).Error
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	for _, row := range tagRows {
		rec := &recipes[index[row.RecipeID]]
		rec.Tags = append(rec.Tags, domain.Tag{ID: row.ID, Name: row.Name, Color: row.Color, Slug: row.Slug})
	}

	var lineRows []recipeLineRow
	err = r.db.WithContext(ctx).Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, ingredients.id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", ids).
		Order("recipe_ingredients.id ASC").
		Scan(&lineRows).Error
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	for _, row := range lineRows {
		rec := &recipes[index[row.RecipeID]]
		rec.Ingredients = append(rec.Ingredients, domain.RecipeIngredient{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return nil
}

// replaceComposition rewrites a recipe's ingredient lines and tag links.
func replaceComposition(tx *gorm.DB, recipeID uint, data *domain.RecipeData) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredientModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTagModel{}).Error; err != nil {
		return err
	}

	lines := make([]domain.RecipeIngredientModel, len(data.Ingredients))
	for i, ing := range data.Ingredients {
		lines[i] = domain.RecipeIngredientModel{RecipeID: recipeID, IngredientID: ing.ID, Amount: ing.Amount}
	}
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("insert recipe ingredients: %w", err)
		}
	}

	tags := make([]domain.RecipeTagModel, len(data.TagIDs))
	for i, tagID := range data.TagIDs {
		tags[i] = domain.RecipeTagModel{RecipeID: recipeID, TagID: tagID}
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("insert recipe tags: %w", err)
		}
	}
	return nil
}

func toRecipe(m *domain.RecipeModel) domain.Recipe {
	return domain.Recipe{
		ID:          m.ID,
		Author:      domain.UserResponse{ID: m.AuthorID},
		Name:        m.Name,
		Text:        m.Text,
		ImageKey:    m.Image,
		CookingTime: m.CookingTime,
		PubDate:     m.PubDate,
		Tags:        []domain.Tag{},
		Ingredients: []domain.RecipeIngredient{},
	}
}

// Ensure interface is satisfied at compile time.
var _ RecipeRepository = (*GormRecipeRepository)(nil)
