package likes

import (
	"context"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes like persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a likes repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a like row. The unique (post, user) index rejects duplicates.
func (r *Repository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete removes the caller's like and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, postID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	return result.RowsAffected, result.Error
}

// ListByPost returns every like on a post.
func (r *Repository) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Like, error) {
	var rows []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
