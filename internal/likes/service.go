package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cjnation/cjnation-backend/internal/posts"
	"github.com/cjnation/cjnation-backend/pkg/db"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records likes. The like row and the post's denormalized counter
// move together in one transaction, so a rejected duplicate never bumps the
// count.
type Service interface {
	Like(ctx context.Context, userID, postID uuid.UUID) (*LikeDTO, error)
	Unlike(ctx context.Context, userID, postID uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]LikeDTO, error)
}

// ServiceParams bundles the dependencies required to build a like service.
type ServiceParams struct {
	DB   txRunner
	Repo *Repository
}

type service struct {
	db   txRunner
	repo *Repository
}

// NewService constructs a like service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("like repository is required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

func (s *service) Like(ctx context.Context, userID, postID uuid.UUID) (*LikeDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	like := &models.Like{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		postRepo := posts.NewRepository(tx)
		if _, err := postRepo.FindByID(ctx, postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
		}
		if err := NewRepository(tx).Create(ctx, like); err != nil {
			if db.IsUniqueViolation(err, "idx_likes_post_user") {
				return pkgerrors.New(pkgerrors.CodeConflict, "post already liked")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create like")
		}
		if err := postRepo.IncrLikeCount(ctx, postID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bump like count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(like), nil
}

func (s *service) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := NewRepository(tx).Delete(ctx, postID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete like")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "like not found")
		}
		if err := posts.NewRepository(tx).IncrLikeCount(ctx, postID, -1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop like count")
		}
		return nil
	})
}

func (s *service) ListByPost(ctx context.Context, postID uuid.UUID) ([]LikeDTO, error) {
	rows, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list likes")
	}
	return FromModels(rows), nil
}
