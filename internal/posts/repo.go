package posts

import (
	"context"
	"time"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	"github.com/cjnation/cjnation-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes post persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a posts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new post row.
func (r *Repository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID loads a post by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateContent rewrites the editable fields plus the derived slug and read
// time, and moves the status when a transition accompanies the edit.
func (r *Repository) UpdateContent(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(fields).Error
}

// UpdateStatus moves a post between lifecycle states only when it currently
// sits in the expected state; the returned count tells the caller whether the
// transition won.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PostStatus, fields map[string]any) (int64, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["status"] = to
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(fields)
	return result.RowsAffected, result.Error
}

// Delete removes a post row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPublished returns one page of published posts, newest first, optionally
// scoped to a category, plus the total match count.
func (r *Repository) ListPublished(ctx context.Context, params ListParams) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", enums.PostStatusPublished)
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Post
	offset := pagination.OffsetParams{Page: params.Page, PerPage: params.PerPage}.Offset()
	if err := query.
		Order("created_at DESC").
		Limit(params.PerPage).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByAuthor returns every post belonging to one author, newest first.
func (r *Repository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	var rows []models.Post
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPending returns the review queue, oldest submission first.
func (r *Repository) ListPending(ctx context.Context) ([]models.Post, error) {
	var rows []models.Post
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.PostStatusPendingReview).
		Order("updated_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrCommentCount shifts the denormalized comment counter. Callers run this
// inside the transaction that writes the comment row.
func (r *Repository) IncrCommentCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// IncrLikeCount shifts the denormalized like counter inside the like/unlike
// transaction.
func (r *Repository) IncrLikeCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

// reviewFields builds the column set recorded on an admin decision.
func reviewFields(reviewer uuid.UUID, at time.Time) map[string]any {
	return map[string]any{
		"reviewed_by": reviewer,
		"reviewed_at": at,
	}
}
