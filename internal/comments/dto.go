package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
)

// CommentDTO is the transport shape of a comment.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPage is one page of comments. NextCursor is empty on the last page.
type CommentPage struct {
	Items      []CommentDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateCommentRequest is the payload for commenting on a post.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func FromModel(c *models.Comment) *CommentDTO {
	if c == nil {
		return nil
	}
	return &CommentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func FromModels(rows []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
