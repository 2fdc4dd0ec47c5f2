package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cjnation/cjnation-backend/pkg/db"
	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the category controllers.
type Service interface {
	Create(ctx context.Context, categoryType enums.CategoryType, req CreateCategoryRequest) (*CategoryDTO, error)
	ListByType(ctx context.Context, categoryType enums.CategoryType) ([]CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository interface {
	Create(ctx context.Context, dto CreateCategoryDTO) (*models.Category, error)
	ListByType(ctx context.Context, categoryType enums.CategoryType) ([]models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a category service.
type ServiceParams struct {
	Repo categoryRepository
}

type service struct {
	repo categoryRepository
}

// NewService constructs a category service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, categoryType enums.CategoryType, req CreateCategoryRequest) (*CategoryDTO, error) {
	if !categoryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category type")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category, err := s.repo.Create(ctx, CreateCategoryDTO{Name: name, Type: categoryType})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name_type") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(category), nil
}

func (s *service) ListByType(ctx context.Context, categoryType enums.CategoryType) ([]CategoryDTO, error) {
	if !categoryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category type")
	}
	rows, err := s.repo.ListByType(ctx, categoryType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return FromModels(rows), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}
