package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	Role          enums.UserRole     `json:"role"`
	Provider      enums.AuthProvider `json:"provider"`
	EmailVerified bool               `json:"email_verified"`
	AvatarMediaID *uuid.UUID         `json:"avatar_media_id,omitempty"`
	LastLoginAt   *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email         string
	PasswordHash  string
	Name          string
	Role          enums.UserRole
	Provider      enums.AuthProvider
	EmailVerified bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Provider:      u.Provider,
		EmailVerified: u.EmailVerified,
		AvatarMediaID: u.AvatarMediaID,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	provider := c.Provider
	if !provider.IsValid() {
		provider = enums.AuthProviderLocal
	}

	return &models.User{
		ID:            uuid.New(),
		Email:         c.Email,
		PasswordHash:  c.PasswordHash,
		Name:          c.Name,
		Role:          role,
		Provider:      provider,
		EmailVerified: c.EmailVerified,
	}
}
