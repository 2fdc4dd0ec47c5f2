package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/cjnation/cjnation-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxTitleRunes bounds post titles on both draft saves and submission.
const maxTitleRunes = 120

// Service drives the editorial lifecycle of posts.
type Service interface {
	CreateDraft(ctx context.Context, authorID uuid.UUID, req CreateDraftRequest) (*PostDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID, req UpdatePostRequest) (*PostDTO, error)
	Submit(ctx context.Context, actorID uuid.UUID, postID uuid.UUID) (*PostDTO, error)
	Approve(ctx context.Context, reviewerID uuid.UUID, postID uuid.UUID) (*PostDTO, error)
	Reject(ctx context.Context, reviewerID uuid.UUID, postID uuid.UUID, req RejectRequest) (*PostDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID) error
	Get(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID) (*PostDTO, error)
	ListPublished(ctx context.Context, params ListParams) (*PageDTO, error)
	ListMine(ctx context.Context, authorID uuid.UUID) ([]PostDTO, error)
	ListPending(ctx context.Context) ([]PostDTO, error)
}

type postRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	UpdateContent(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PostStatus, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublished(ctx context.Context, params ListParams) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	ListPending(ctx context.Context) ([]models.Post, error)
}

type imageReleaser interface {
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a post service.
type ServiceParams struct {
	Repo  postRepository
	Media imageReleaser
}

type service struct {
	repo  postRepository
	media imageReleaser
}

// NewService constructs a post service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("post repository is required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media service is required")
	}
	return &service{repo: params.Repo, media: params.Media}, nil
}

func (s *service) CreateDraft(ctx context.Context, authorID uuid.UUID, req CreateDraftRequest) (*PostDTO, error) {
	if authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "author identity missing")
	}
	title, body, err := validateContent(req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if req.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	post := &models.Post{
		ID:           uuid.New(),
		Title:        title,
		Body:         body,
		Slug:         Slugify(title),
		ReadMinutes:  ReadMinutes(body),
		Status:       enums.PostStatusDraft,
		CategoryID:   req.CategoryID,
		AuthorID:     authorID,
		ImageMediaID: req.ImageMediaID,
	}
	if _, err := s.repo.Create(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create draft")
	}
	return FromModel(post), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID, req UpdatePostRequest) (*PostDTO, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID && role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can edit this post")
	}
	if post.Status != enums.PostStatusDraft && post.Status != enums.PostStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("post in state %s cannot be edited", post.Status))
	}
	title, body, err := validateContent(req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if req.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	fields := map[string]any{
		"title":          title,
		"body":           body,
		"slug":           Slugify(title),
		"read_minutes":   ReadMinutes(body),
		"category_id":    req.CategoryID,
		"image_media_id": req.ImageMediaID,
	}
	status := post.Status
	if req.Resubmit {
		if req.ImageMediaID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "an image is required for review")
		}
		fields["status"] = enums.PostStatusPendingReview
		fields["rejection_reason"] = nil
		status = enums.PostStatusPendingReview
	}

	// Replacement uploads happen before this call; the superseded object is
	// released only after the new reference is persisted.
	oldImage := post.ImageMediaID
	if err := s.repo.UpdateContent(ctx, post.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update post")
	}
	if oldImage != nil && (req.ImageMediaID == nil || *req.ImageMediaID != *oldImage) {
		if err := s.media.Delete(ctx, *oldImage); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release replaced image")
		}
	}

	post.Title = title
	post.Body = body
	post.Slug = Slugify(title)
	post.ReadMinutes = ReadMinutes(body)
	post.CategoryID = req.CategoryID
	post.ImageMediaID = req.ImageMediaID
	post.Status = status
	if req.Resubmit {
		post.RejectionReason = nil
	}
	return FromModel(post), nil
}

func (s *service) Submit(ctx context.Context, actorID uuid.UUID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can submit this post")
	}
	if post.Status != enums.PostStatusDraft && post.Status != enums.PostStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("post in state %s cannot be submitted", post.Status))
	}
	if _, _, err := validateContent(post.Title, post.Body); err != nil {
		return nil, err
	}
	if post.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if post.ImageMediaID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an image is required for review")
	}

	rows, err := s.repo.UpdateStatus(ctx, post.ID, post.Status, enums.PostStatusPendingReview,
		map[string]any{"rejection_reason": nil})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "submit post")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "post moved before submission completed")
	}
	post.Status = enums.PostStatusPendingReview
	post.RejectionReason = nil
	return FromModel(post), nil
}

// Approve publishes a pending post; approval and publication are one step.
func (s *service) Approve(ctx context.Context, reviewerID uuid.UUID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := reviewFields(reviewerID, now)
	fields["rejection_reason"] = nil
	rows, err := s.repo.UpdateStatus(ctx, post.ID, enums.PostStatusPendingReview, enums.PostStatusPublished, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve post")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("post in state %s cannot be approved", post.Status))
	}
	post.Status = enums.PostStatusPublished
	post.ReviewedBy = &reviewerID
	post.ReviewedAt = &now
	post.RejectionReason = nil
	return FromModel(post), nil
}

func (s *service) Reject(ctx context.Context, reviewerID uuid.UUID, postID uuid.UUID, req RejectRequest) (*PostDTO, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
	}
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := reviewFields(reviewerID, now)
	fields["rejection_reason"] = reason
	rows, err := s.repo.UpdateStatus(ctx, post.ID, enums.PostStatusPendingReview, enums.PostStatusRejected, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject post")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("post in state %s cannot be rejected", post.Status))
	}
	post.Status = enums.PostStatusRejected
	post.ReviewedBy = &reviewerID
	post.ReviewedAt = &now
	post.RejectionReason = &reason
	return FromModel(post), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID && role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete this post")
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete post")
	}
	if post.ImageMediaID != nil {
		if err := s.media.Delete(ctx, *post.ImageMediaID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release post image")
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, role enums.UserRole, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	// Unpublished posts stay private to their author and the review team.
	if post.Status != enums.PostStatusPublished && post.AuthorID != actorID && role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return FromModel(post), nil
}

func (s *service) ListPublished(ctx context.Context, params ListParams) (*PageDTO, error) {
	norm := pagination.OffsetParams{Page: params.Page, PerPage: params.PerPage}.Normalize()
	params.Page, params.PerPage = norm.Page, norm.PerPage
	rows, total, err := s.repo.ListPublished(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list published posts")
	}
	return &PageDTO{
		Items:   FromModels(rows),
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

func (s *service) ListMine(ctx context.Context, authorID uuid.UUID) ([]PostDTO, error) {
	rows, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts by author")
	}
	return FromModels(rows), nil
}

func (s *service) ListPending(ctx context.Context) ([]PostDTO, error) {
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending posts")
	}
	return FromModels(rows), nil
}

func (s *service) load(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
	}
	return post, nil
}

func validateContent(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("title must be at most %d characters", maxTitleRunes))
	}
	body = SanitizeBody(body)
	if body == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	return title, body, nil
}
