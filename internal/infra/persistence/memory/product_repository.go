package memory

import (
	"context"
	"slices"
	"strings"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type productRepository struct {
	acc accessor
}

// NewProductRepository is the constructor for the in-memory ProductRepository.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{acc: store}
}

func (repo *productRepository) Create(_ context.Context, product *entity.Product) error {
	return repo.acc.do(func(st *state) error {
		st.products[product.ID] = cloneProduct(product)

		return nil
	})
}

func (repo *productRepository) Update(_ context.Context, product *entity.Product) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.products[product.ID]
		if !ok {
			return repository.ErrProductNotFound
		}
		updated := cloneProduct(product)
		updated.CreatedAt = stored.CreatedAt
		st.products[product.ID] = updated

		return nil
	})
}

func (repo *productRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	var found *entity.Product
	err := repo.acc.do(func(st *state) error {
		product, ok := st.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		found = cloneProduct(product)

		return nil
	})

	return found, err
}

func (repo *productRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	products := make([]*entity.Product, 0, len(ids))
	err := repo.acc.do(func(st *state) error {
		for _, id := range ids {
			if product, ok := st.products[id]; ok {
				products = append(products, cloneProduct(product))
			}
		}

		return nil
	})

	return products, err
}

func (repo *productRepository) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var products []*entity.Product
	err := repo.acc.do(func(st *state) error {
		for _, product := range st.products {
			if filter.OnlyAvailable && !product.IsAvailable {
				continue
			}
			if filter.CategoryID != nil && (product.CategoryID == nil || *product.CategoryID != *filter.CategoryID) {
				continue
			}
			if filter.ActiveCategoriesOnly && product.CategoryID != nil {
				if category, ok := st.categories[*product.CategoryID]; ok && !category.IsActive {
					continue
				}
			}
			if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
				continue
			}
			products = append(products, cloneProduct(product))
		}

		return nil
	})
	slices.SortFunc(products, func(a, b *entity.Product) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	return page(products, filter.Limit, filter.Offset), err
}

func (repo *productRepository) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	return repo.acc.do(func(st *state) error {
		product, ok := st.products[id]
		if !ok || product.Stock < quantity {
			return repository.ErrStockNotDecremented
		}
		product.Stock -= quantity

		return nil
	})
}
