package memory

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type cartRepository struct {
	acc accessor
}

// NewCartRepository is the constructor for the in-memory CartRepository.
func NewCartRepository(store *Store) repository.CartRepository {
	return &cartRepository{acc: store}
}

func (repo *cartRepository) Create(_ context.Context, cart *entity.Cart) error {
	return repo.acc.do(func(st *state) error {
		if _, exists := st.carts[cart.UserID]; exists {
			return repository.ErrCartAlreadyExists
		}
		st.carts[cart.UserID] = storedCart(cart)

		return nil
	})
}

func (repo *cartRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var found *entity.Cart
	err := repo.acc.do(func(st *state) error {
		cart, ok := st.carts[userID]
		if !ok {
			return repository.ErrCartNotFound
		}
		found = cart.Clone()

		return nil
	})

	return found, err
}

func (repo *cartRepository) Save(_ context.Context, cart *entity.Cart) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.carts[cart.UserID]
		if !ok {
			return repository.ErrCartNotFound
		}
		if stored.ID != cart.ID || stored.Version != cart.Version {
			return repository.ErrCartVersionConflict
		}

		cart.Version++
		st.carts[cart.UserID] = storedCart(cart)

		return nil
	})
}

// storedCart copies cart without the transient orphan markers.
func storedCart(cart *entity.Cart) *entity.Cart {
	cloned := cart.Clone()
	for _, line := range cloned.Lines {
		line.Orphaned = false
	}

	return cloned
}
