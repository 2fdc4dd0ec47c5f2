package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// User represents the canonical identity entity. Password and one-time token
// hashes are persistence-only and never serialized.
type User struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email         string             `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash  string             `gorm:"column:password_hash;not null" json:"-"`
	Name          string             `gorm:"column:name;not null" json:"name"`
	Role          enums.UserRole     `gorm:"column:role;type:text;not null;default:user" json:"role"`
	Provider      enums.AuthProvider `gorm:"column:provider;type:text;not null;default:local" json:"provider"`
	EmailVerified bool               `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	AvatarMediaID *uuid.UUID         `gorm:"column:avatar_media_id;type:uuid" json:"avatar_media_id,omitempty"`

	VerificationTokenHash *string    `gorm:"column:verification_token_hash" json:"-"`
	VerificationExpiresAt *time.Time `gorm:"column:verification_expires_at" json:"-"`
	ResetTokenHash        *string    `gorm:"column:reset_token_hash" json:"-"`
	ResetExpiresAt        *time.Time `gorm:"column:reset_expires_at" json:"-"`

	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
