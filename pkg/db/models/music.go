package models

import (
	"time"

	"github.com/google/uuid"
)

// Music is a download-catalog entry with a stored thumbnail and audio file.
type Music struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title            string     `gorm:"column:title;not null;index" json:"title"`
	DownloadLink     string     `gorm:"column:download_link;not null" json:"download_link"`
	Year             int        `gorm:"column:year" json:"year"`
	CategoryID       uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	ThumbnailMediaID *uuid.UUID `gorm:"column:thumbnail_media_id;type:uuid" json:"thumbnail_media_id,omitempty"`
	AudioMediaID     *uuid.UUID `gorm:"column:audio_media_id;type:uuid" json:"audio_media_id,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
