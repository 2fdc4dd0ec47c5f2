package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cjnation/cjnation-backend/internal/posts"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates and lists comments. The comment row and the post's
// denormalized counter are written in one transaction.
type Service interface {
	Create(ctx context.Context, userID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	ListByPost(ctx context.Context, postID uuid.UUID, params pagination.Params) (*CommentPage, error)
}

// ServiceParams bundles the dependencies required to build a comment service.
type ServiceParams struct {
	DB   txRunner
	Repo *Repository
}

type service struct {
	db   txRunner
	repo *Repository
}

// NewService constructs a comment service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("comment repository is required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
	}

	comment := &models.Comment{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
		Body:   body,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		postRepo := posts.NewRepository(tx)
		if _, err := postRepo.FindByID(ctx, postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
		}
		if err := NewRepository(tx).Create(ctx, comment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
		}
		if err := postRepo.IncrCommentCount(ctx, postID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bump comment count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(comment), nil
}

func (s *service) ListByPost(ctx context.Context, postID uuid.UUID, params pagination.Params) (*CommentPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByPost(ctx, postID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}

	page := &CommentPage{Items: FromModels(rows)}
	if len(rows) > limit {
		page.Items = page.Items[:limit]
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
