package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/pkg/database"
)

// GormIngredientRepository implements IngredientRepository using GORM.
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GORM-backed ingredient repository.
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// List returns ingredients ordered by name, filtered by a case-insensitive
// name prefix when one is given.
func (r *GormIngredientRepository) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	query := r.db.WithContext(ctx).Model(&domain.IngredientModel{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var models []domain.IngredientModel
	if err := query.Order("name ASC").Order("measurement_unit ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Ingredient, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// GetByID retrieves an ingredient by ID.
func (r *GormIngredientRepository) GetByID(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var model domain.IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	ing := model.ToDomain()
	return &ing, nil
}

// MissingIDs returns the ids that have no ingredient row.
func (r *GormIngredientRepository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(ctx, r.db, &domain.IngredientModel{}, ids)
}

// Create inserts a new ingredient.
func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	model := domain.IngredientModel{Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrIngredientExists
		}
		return err
	}
	ingredient.ID = model.ID
	return nil
}

// BulkInsert inserts ingredients in batches, skipping existing pairs.
func (r *GormIngredientRepository) BulkInsert(ctx context.Context, ingredients []domain.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	models := make([]domain.IngredientModel, len(ingredients))
	for i, ing := range ingredients {
		models[i] = domain.IngredientModel{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&models, 500)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GormTagRepository implements TagRepository using GORM.
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GORM-backed tag repository.
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// List returns every tag ordered by name.
func (r *GormTagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var models []domain.TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Tag, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// GetByID retrieves a tag by ID.
func (r *GormTagRepository) GetByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var model domain.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	tag := model.ToDomain()
	return &tag, nil
}

// MissingIDs returns the ids that have no tag row.
func (r *GormTagRepository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(ctx, r.db, &domain.TagModel{}, ids)
}

// Create inserts a new tag.
func (r *GormTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	model := domain.TagModel{Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrTagExists
		}
		return err
	}
	tag.ID = model.ID
	return nil
}

func missingIDs(ctx context.Context, db *gorm.DB, model interface{}, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Ensure interface is satisfied at compile time.
var (
	_ IngredientRepository = (*GormIngredientRepository)(nil)
	_ TagRepository        = (*GormTagRepository)(nil)
)
