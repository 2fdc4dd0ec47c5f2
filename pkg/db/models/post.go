package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// Post is a content unit moving through the editorial lifecycle. Slug and
// ReadMinutes are derived from the current title/body on every save.
type Post struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Body        string           `gorm:"column:body;not null" json:"body"`
	Slug        string           `gorm:"column:slug;not null;index" json:"slug"`
	ReadMinutes int              `gorm:"column:read_minutes;not null;default:1" json:"read_minutes"`
	Status      enums.PostStatus `gorm:"column:status;type:text;not null;default:draft;index" json:"status"`

	CategoryID   uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	AuthorID     uuid.UUID  `gorm:"column:author_id;type:uuid;not null;index" json:"author_id"`
	ImageMediaID *uuid.UUID `gorm:"column:image_media_id;type:uuid" json:"image_media_id,omitempty"`

	CommentCount int `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	LikeCount    int `gorm:"column:like_count;not null;default:0" json:"like_count"`

	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy      *uuid.UUID `gorm:"column:reviewed_by;type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
