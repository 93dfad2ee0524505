package memory

import (
	"context"
	"slices"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	acc accessor
}

// NewUserRepository is the constructor for the in-memory UserRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{acc: store}
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := repo.acc.do(func(st *state) error {
		user, ok := st.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = cloneUser(user)

		return nil
	})

	return found, err
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var id uuid.UUID
	err := repo.acc.do(func(st *state) error {
		var ok bool
		if id, ok = st.emails[email]; !ok {
			return repository.ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	return repo.acc.do(func(st *state) error {
		if _, taken := st.emails[user.Email]; taken {
			return repository.ErrDuplicateEmail
		}
		st.users[user.ID] = cloneUser(user)
		st.emails[user.Email] = user.ID

		return nil
	})
}

func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.users[user.ID]
		if !ok {
			return repository.ErrUserNotFound
		}
		if owner, taken := st.emails[user.Email]; taken && owner != user.ID {
			return repository.ErrDuplicateEmail
		}

		delete(st.emails, stored.Email)
		st.emails[user.Email] = user.ID
		st.users[user.ID] = cloneUser(user)

		return nil
	})
}

func (repo *userRepository) List(_ context.Context, role *entity.Role, limit, offset int) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.acc.do(func(st *state) error {
		for _, user := range st.users {
			if role != nil && user.Role != *role {
				continue
			}
			users = append(users, cloneUser(user))
		}

		return nil
	})
	slices.SortFunc(users, func(a, b *entity.User) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	return page(users, limit, offset), err
}
