package memory

import (
	"context"
	"slices"
	"time"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
)

type promotionRepository struct {
	acc accessor
}

// NewPromotionRepository is the constructor for the in-memory PromotionRepository.
func NewPromotionRepository(store *Store) repository.PromotionRepository {
	return &promotionRepository{acc: store}
}

func (repo *promotionRepository) Create(_ context.Context, promotion *entity.Promotion) error {
	return repo.acc.do(func(st *state) error {
		if _, taken := st.codes[promotion.Code]; taken {
			return repository.ErrDuplicatePromotionCode
		}
		st.promotions[promotion.ID] = promotion.Clone()
		st.codes[promotion.Code] = promotion.ID

		return nil
	})
}

func (repo *promotionRepository) Update(_ context.Context, promotion *entity.Promotion) error {
	return repo.acc.do(func(st *state) error {
		stored, ok := st.promotions[promotion.ID]
		if !ok {
			return repository.ErrPromotionNotFound
		}
		if owner, taken := st.codes[promotion.Code]; taken && owner != promotion.ID {
			return repository.ErrDuplicatePromotionCode
		}

		updated := promotion.Clone()
		updated.UsedCount = stored.UsedCount
		updated.Usage = stored.Usage
		updated.CreatedBy = stored.CreatedBy
		updated.CreatedAt = stored.CreatedAt

		delete(st.codes, stored.Code)
		st.codes[updated.Code] = updated.ID
		st.promotions[updated.ID] = updated

		return nil
	})
}

func (repo *promotionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Promotion, error) {
	var found *entity.Promotion
	err := repo.acc.do(func(st *state) error {
		promotion, ok := st.promotions[id]
		if !ok {
			return repository.ErrPromotionNotFound
		}
		found = withoutUsage(promotion)

		return nil
	})

	return found, err
}

func (repo *promotionRepository) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	var id uuid.UUID
	err := repo.acc.do(func(st *state) error {
		var ok bool
		if id, ok = st.codes[code]; !ok {
			return repository.ErrPromotionNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *promotionRepository) List(_ context.Context, filter repository.PromotionFilter) ([]*entity.Promotion, error) {
	var promotions []*entity.Promotion
	err := repo.acc.do(func(st *state) error {
		for _, promotion := range st.promotions {
			if at := filter.ActiveAt; at != nil && !activeAt(promotion, *at) {
				continue
			}
			promotions = append(promotions, withoutUsage(promotion))
		}

		return nil
	})
	slices.SortFunc(promotions, func(a, b *entity.Promotion) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})

	return page(promotions, filter.Limit, filter.Offset), err
}

func (repo *promotionRepository) UsagesByUser(_ context.Context, userID uuid.UUID) (map[uuid.UUID]entity.PromotionUsage, error) {
	usages := map[uuid.UUID]entity.PromotionUsage{}
	err := repo.acc.do(func(st *state) error {
		for id, promotion := range st.promotions {
			if usage, ok := promotion.Usage[userID]; ok {
				usages[id] = usage
			}
		}

		return nil
	})

	return usages, err
}

func (repo *promotionRepository) RecordUsage(_ context.Context, promotionID, userID uuid.UUID, perUserLimit *int, now time.Time) error {
	return repo.acc.do(func(st *state) error {
		promotion, ok := st.promotions[promotionID]
		if !ok {
			return repository.ErrPromotionUsageRejected
		}
		if promotion.MaxTotalUses != nil && promotion.UsedCount >= *promotion.MaxTotalUses {
			return repository.ErrPromotionUsageRejected
		}
		if perUserLimit != nil && promotion.UsesBy(userID) >= *perUserLimit {
			return repository.ErrPromotionUsageRejected
		}
		promotion.RecordUse(userID, now)

		return nil
	})
}

func activeAt(promotion *entity.Promotion, at time.Time) bool {
	return promotion.IsActive &&
		!promotion.ValidFrom.After(at) &&
		(promotion.ValidTo == nil || !promotion.ValidTo.Before(at))
}

func withoutUsage(promotion *entity.Promotion) *entity.Promotion {
	cloned := promotion.Clone()
	cloned.Usage = map[uuid.UUID]entity.PromotionUsage{}

	return cloned
}
