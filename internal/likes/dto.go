package likes

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
)

// LikeDTO is the transport shape of a like.
type LikeDTO struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(l *models.Like) *LikeDTO {
	if l == nil {
		return nil
	}
	return &LikeDTO{
		ID:        l.ID,
		PostID:    l.PostID,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
}

func FromModels(rows []models.Like) []LikeDTO {
	out := make([]LikeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
