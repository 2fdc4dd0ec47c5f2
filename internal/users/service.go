package users

import (
	"context"
	"errors"
	"strings"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) error
}

type avatarReleaser interface {
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// Service exposes profile reads and updates for the signed-in user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

// UpdateProfileRequest carries the mutable profile fields. A replacement
// avatar is uploaded through the media endpoint first and referenced here.
type UpdateProfileRequest struct {
	Name          string     `json:"name" validate:"required,max=80"`
	AvatarMediaID *uuid.UUID `json:"avatar_media_id,omitempty"`
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	UserRepo userRepository
	Media    avatarReleaser
}

type service struct {
	users userRepository
	media avatarReleaser
}

// NewService constructs a profile service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository is required")
	}
	if params.Media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media service is required")
	}
	return &service{users: params.UserRepo, media: params.Media}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateName(ctx, user.ID, name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update name")
	}
	user.Name = name

	if req.AvatarMediaID != nil {
		old := user.AvatarMediaID
		if err := s.users.UpdateAvatar(ctx, user.ID, req.AvatarMediaID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update avatar")
		}
		// The new reference is persisted before the old object is released.
		if old != nil && *old != *req.AvatarMediaID {
			if err := s.media.Delete(ctx, *old); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release replaced avatar")
			}
		}
		user.AvatarMediaID = req.AvatarMediaID
	}
	return FromModel(user), nil
}

func (s *service) DeleteAvatar(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AvatarMediaID == nil {
		return FromModel(user), nil
	}

	old := *user.AvatarMediaID
	if err := s.users.UpdateAvatar(ctx, user.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear avatar")
	}
	if err := s.media.Delete(ctx, old); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release avatar")
	}
	user.AvatarMediaID = nil
	return FromModel(user), nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
