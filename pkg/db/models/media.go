package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// Media captures metadata for uploaded objects across the platform.
type Media struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID       `gorm:"column:owner_user_id;type:uuid;not null;index" json:"owner_user_id"`
	Kind        enums.MediaKind `gorm:"column:kind;type:text;not null" json:"kind"`
	GCSKey      string          `gorm:"column:gcs_key;not null;unique" json:"gcs_key"`
	URL         string          `gorm:"column:url;not null" json:"url"`
	FileName    string          `gorm:"column:file_name;not null" json:"file_name"`
	MimeType    string          `gorm:"column:mime_type;not null" json:"mime_type"`
	SizeBytes   int64           `gorm:"column:size_bytes;not null" json:"size_bytes"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
