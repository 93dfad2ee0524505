package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "basket/internal/delivery/context"
	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/domain/service"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	clock        service.Clock
	ids          service.IDGenerator
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	Clock        service.Clock
	IDs          service.IDGenerator
	Logger       *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		clock:        params.Clock,
		ids:          params.IDs,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List lists categories by name.
func (srv *categoryService) List(ctx context.Context, includeInactive bool) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx, !includeInactive)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// Create adds an active category. Names are unique.
func (srv *categoryService) Create(ctx context.Context, input usecase.CategoryInput) (*entity.Category, error) {
	now := srv.clock.Now()
	category := &entity.Category{
		ID:        srv.ids.NewID(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}
	category.UpdatedAt = now

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateCategoryName) {
			return nil, errors.Wrap(domainerrors.ErrCategoryExists, "category name already in use")
		}

		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

// Update replaces name, image and description.
func (srv *categoryService) Update(ctx context.Context, categoryID uuid.UUID, input usecase.CategoryInput) (*entity.Category, error) {
	category, err := srv.find(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	return srv.save(ctx, category)
}

// SetActive shows or hides the category and its products in the public catalog.
func (srv *categoryService) SetActive(ctx context.Context, categoryID uuid.UUID, active bool) (*entity.Category, error) {
	category, err := srv.find(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	category.IsActive = active
	category, err = srv.save(ctx, category)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Category status changed", slog.String("name", category.Name), slog.Bool("active", active))

	return category, nil
}

func (srv *categoryService) save(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	category.UpdatedAt = srv.clock.Now()
	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCategoryName):
			return nil, errors.Wrap(domainerrors.ErrCategoryExists, "category name already in use")
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, errors.Wrap(domainerrors.ErrCategoryNotFound, "category not found")
		}

		return nil, errors.Wrap(err, "failed to update category")
	}

	return category, nil
}

func (srv *categoryService) find(ctx context.Context, categoryID uuid.UUID) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCategoryNotFound, "category not found")
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return category, nil
}

func applyCategoryInput(category *entity.Category, input usecase.CategoryInput) error {
	name := entity.NormalizeCategoryName(input.Name)
	image := strings.TrimSpace(input.Image)
	if name == "" || image == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name and image are required")
	}

	category.Name = name
	category.Image = image
	category.Description = strings.TrimSpace(input.Description)

	return nil
}
