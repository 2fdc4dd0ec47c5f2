package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// Category groups posts, movies, and music. (name, type) pairs are unique.
type Category struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string             `gorm:"column:name;not null;uniqueIndex:idx_categories_name_type" json:"name"`
	Type      enums.CategoryType `gorm:"column:type;type:text;not null;uniqueIndex:idx_categories_name_type" json:"type"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
