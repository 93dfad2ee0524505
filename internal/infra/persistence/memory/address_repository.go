package memory

import (
	"context"
	"slices"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type addressRepository struct {
	acc accessor
}

// NewAddressRepository is the constructor for the in-memory AddressRepository.
func NewAddressRepository(store *Store) repository.AddressRepository {
	return &addressRepository{acc: store}
}

func (repo *addressRepository) Create(_ context.Context, address *entity.Address) error {
	return repo.acc.do(func(st *state) error {
		st.addresses[address.ID] = cloneAddress(address)

		return nil
	})
}

func (repo *addressRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Address, error) {
	var found *entity.Address
	err := repo.acc.do(func(st *state) error {
		address, ok := st.addresses[id]
		if !ok {
			return repository.ErrAddressNotFound
		}
		found = cloneAddress(address)

		return nil
	})

	return found, err
}

func (repo *addressRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses := []*entity.Address{}
	err := repo.acc.do(func(st *state) error {
		for _, address := range st.addresses {
			if address.UserID == userID {
				addresses = append(addresses, cloneAddress(address))
			}
		}

		return nil
	})
	slices.SortFunc(addresses, func(a, b *entity.Address) int {
		switch {
		case a.IsDefault && !b.IsDefault:
			return -1
		case b.IsDefault && !a.IsDefault:
			return 1
		}

		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return addresses, err
}

func (repo *addressRepository) Update(_ context.Context, address *entity.Address) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.addresses[address.ID]
		if !ok || stored.UserID != address.UserID {
			return repository.ErrAddressNotFound
		}
		updated := cloneAddress(address)
		updated.IsDefault = stored.IsDefault
		updated.CreatedAt = stored.CreatedAt
		st.addresses[address.ID] = updated

		return nil
	})
}

func (repo *addressRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	return repo.acc.do(func(st *state) error {
		address, ok := st.addresses[id]
		if !ok || address.UserID != userID {
			return repository.ErrAddressNotFound
		}
		delete(st.addresses, id)

		return nil
	})
}

func (repo *addressRepository) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	return repo.acc.do(func(st *state) error {
		target, ok := st.addresses[id]
		if !ok || target.UserID != userID {
			return repository.ErrAddressNotFound
		}
		for _, address := range st.addresses {
			if address.UserID == userID {
				address.IsDefault = address.ID == id
			}
		}

		return nil
	})
}
