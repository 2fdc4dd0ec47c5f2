package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// PostDTO is the transport shape of a post.
type PostDTO struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	Slug         string           `json:"slug"`
	ReadMinutes  int              `json:"read_minutes"`
	Status       enums.PostStatus `json:"status"`
	CategoryID   uuid.UUID        `json:"category_id"`
	AuthorID     uuid.UUID        `json:"author_id"`
	ImageMediaID *uuid.UUID       `json:"image_media_id,omitempty"`
	CommentCount int              `json:"comment_count"`
	LikeCount    int              `json:"like_count"`

	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDraftRequest is the payload for creating a new draft.
type CreateDraftRequest struct {
	Title        string     `json:"title" validate:"required"`
	Body         string     `json:"body" validate:"required"`
	CategoryID   uuid.UUID  `json:"category_id" validate:"required"`
	ImageMediaID *uuid.UUID `json:"image_media_id,omitempty"`
}

// UpdatePostRequest edits content fields in place. Resubmit pushes a draft or
// rejected post back into the review queue in the same call.
type UpdatePostRequest struct {
	Title        string     `json:"title" validate:"required"`
	Body         string     `json:"body" validate:"required"`
	CategoryID   uuid.UUID  `json:"category_id" validate:"required"`
	ImageMediaID *uuid.UUID `json:"image_media_id,omitempty"`
	Resubmit     bool       `json:"resubmit,omitempty"`
}

// RejectRequest carries the mandatory reason surfaced back to the author.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListParams bounds and filters the published-post listing.
type ListParams struct {
	Page       int
	PerPage    int
	CategoryID *uuid.UUID
}

// PageDTO is one page of posts plus the total row count.
type PageDTO struct {
	Items   []PostDTO `json:"items"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

func FromModel(p *models.Post) *PostDTO {
	if p == nil {
		return nil
	}
	return &PostDTO{
		ID:              p.ID,
		Title:           p.Title,
		Body:            p.Body,
		Slug:            p.Slug,
		ReadMinutes:     p.ReadMinutes,
		Status:          p.Status,
		CategoryID:      p.CategoryID,
		AuthorID:        p.AuthorID,
		ImageMediaID:    p.ImageMediaID,
		CommentCount:    p.CommentCount,
		LikeCount:       p.LikeCount,
		RejectionReason: p.RejectionReason,
		ReviewedBy:      p.ReviewedBy,
		ReviewedAt:      p.ReviewedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromModels(rows []models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
