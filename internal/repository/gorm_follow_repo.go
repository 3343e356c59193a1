package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/pkg/database"
)

// GormFollowRepository implements FollowRepository using GORM.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM-backed follow repository.
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Follow creates a follow relationship. Rows are hard-deleted on unfollow,
// so a re-follow is a plain insert guarded by the unique index.
func (r *GormFollowRepository) Follow(ctx context.Context, userID, authorID string) error {
	model := domain.FollowModel{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes a follow relationship.
func (r *GormFollowRepository) Unfollow(ctx context.Context, userID, authorID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// BatchIsFollowing checks if userID follows each of the authorIDs.
func (r *GormFollowRepository) BatchIsFollowing(ctx context.Context, userID string, authorIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		result[id] = false
	}

	if userID == "" || len(authorIDs) == 0 {
		return result, nil
	}

	var models []domain.FollowModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		result[m.AuthorID] = true
	}
	return result, nil
}

// ListFollowing returns one page of followed author IDs and the total.
func (r *GormFollowRepository) ListFollowing(ctx context.Context, userID string, offset, limit int) ([]string, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.FollowModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authorIDs []string
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Pluck("author_id", &authorIDs).Error
	if err != nil {
		return nil, 0, err
	}
	return authorIDs, total, nil
}

// Ensure interface is satisfied at compile time.
var _ FollowRepository = (*GormFollowRepository)(nil)
