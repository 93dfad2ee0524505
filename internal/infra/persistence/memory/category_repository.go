package memory

import (
	"context"
	"slices"
	"strings"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type categoryRepository struct {
	acc accessor
}

// NewCategoryRepository is the constructor for the in-memory CategoryRepository.
func NewCategoryRepository(store *Store) repository.CategoryRepository {
	return &categoryRepository{acc: store}
}

func (repo *categoryRepository) Create(_ context.Context, category *entity.Category) error {
	return repo.acc.do(func(st *state) error {
		if nameTaken(st, category) {
			return repository.ErrDuplicateCategoryName
		}
		st.categories[category.ID] = cloneCategory(category)

		return nil
	})
}

func (repo *categoryRepository) Update(_ context.Context, category *entity.Category) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.categories[category.ID]
		if !ok {
			return repository.ErrCategoryNotFound
		}
		if nameTaken(st, category) {
			return repository.ErrDuplicateCategoryName
		}

		updated := cloneCategory(category)
		updated.CreatedAt = stored.CreatedAt
		st.categories[category.ID] = updated

		return nil
	})
}

func (repo *categoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	var found *entity.Category
	err := repo.acc.do(func(st *state) error {
		category, ok := st.categories[id]
		if !ok {
			return repository.ErrCategoryNotFound
		}
		found = cloneCategory(category)

		return nil
	})

	return found, err
}

func (repo *categoryRepository) List(_ context.Context, onlyActive bool) ([]*entity.Category, error) {
	categories := []*entity.Category{}
	err := repo.acc.do(func(st *state) error {
		for _, category := range st.categories {
			if onlyActive && !category.IsActive {
				continue
			}
			categories = append(categories, cloneCategory(category))
		}

		return nil
	})
	slices.SortFunc(categories, func(a, b *entity.Category) int {
		return strings.Compare(a.Name, b.Name)
	})

	return categories, err
}

// nameTaken reports whether another category already uses the name.
func nameTaken(st *state, category *entity.Category) bool {
	for id, other := range st.categories {
		if id != category.ID && other.Name == category.Name {
			return true
		}
	}

	return false
}
