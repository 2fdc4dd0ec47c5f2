package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// CategoryDTO is the transport shape of a category.
type CategoryDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Type      enums.CategoryType `json:"type"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateCategoryRequest is the payload for the admin create endpoint. The
// type comes from the URL, not the body.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=60"`
}

// CreateCategoryDTO holds the data the repo needs to persist a new category.
type CreateCategoryDTO struct {
	Name string
	Type enums.CategoryType
}

func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromModels(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateCategoryDTO) ToModel() *models.Category {
	return &models.Category{
		ID:   uuid.New(),
		Name: c.Name,
		Type: c.Type,
	}
}
