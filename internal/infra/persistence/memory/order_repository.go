package memory

import (
	"context"
	"slices"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type orderRepository struct {
	acc accessor
}

// NewOrderRepository is the constructor for the in-memory OrderRepository.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{acc: store}
}

func (repo *orderRepository) Create(_ context.Context, order *entity.Order) error {
	return repo.acc.do(func(st *state) error {
		st.orders[order.ID] = cloneOrder(order)

		return nil
	})
}

func (repo *orderRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	var found *entity.Order
	err := repo.acc.do(func(st *state) error {
		order, ok := st.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		found = cloneOrder(order)

		return nil
	})

	return found, err
}

func (repo *orderRepository) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := repo.acc.do(func(st *state) error {
		for _, order := range st.orders {
			if filter.UserID != nil && order.UserID != *filter.UserID {
				continue
			}
			if filter.Status != nil && order.Status != *filter.Status {
				continue
			}
			orders = append(orders, cloneOrder(order))
		}

		return nil
	})
	slices.SortFunc(orders, func(a, b *entity.Order) int {
		return newestFirst(a.PlacedAt, b.PlacedAt, a.ID, b.ID)
	})

	return page(orders, filter.Limit, filter.Offset), err
}

func (repo *orderRepository) UpdateStatus(_ context.Context, order *entity.Order, from entity.OrderStatus) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.orders[order.ID]
		if !ok {
			return repository.ErrOrderNotFound
		}
		if stored.Status != from {
			return repository.ErrOrderStatusConflict
		}

		stored.Status = order.Status
		stored.CancellationReason = order.CancellationReason
		stored.Payment.Status = order.Payment.Status
		stored.UpdatedAt = order.UpdatedAt

		return nil
	})
}
