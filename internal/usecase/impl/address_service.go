package impl

import (
	"context"
	"log/slog"
	"strings"

	"basket/config"
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

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager      repository.TransactionManager
	addressRepo    repository.AddressRepository
	clock          service.Clock
	ids            service.IDGenerator
	defaultCountry string
	logger         *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Clock       service.Clock
	IDs         service.IDGenerator
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	defaultCountry := ""
	if params.Config.Checkout != nil {
		defaultCountry = params.Config.Checkout.DefaultCountry
	}

	return &addressService{
		txManager:      params.TxManager,
		addressRepo:    params.AddressRepo,
		clock:          params.Clock,
		ids:            params.IDs,
		defaultCountry: defaultCountry,
		logger:         params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Add saves a new address. The first address, or one flagged default,
// becomes the default.
func (srv *addressService) Add(ctx context.Context, userID uuid.UUID, input usecase.AddAddressInput) (*entity.Address, error) {
	label := input.Label
	if label == "" {
		label = entity.AddressLabelOther
	}
	if !label.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("label must be home, work or other")
	}

	now := srv.clock.Now()
	address := &entity.Address{
		ID:         srv.ids.NewID(),
		UserID:     userID,
		Label:      label,
		Street:     strings.TrimSpace(input.Street),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if address.Country == "" {
		address.Country = srv.defaultCountry
	}
	if !address.Snapshot().IsComplete() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("street, city, state and postal code are required")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		existing, err := addressRepo.ListByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list addresses")
		}

		if err := addressRepo.Create(ctx, address); err != nil {
			return errors.Wrap(err, "failed to create address")
		}

		if input.IsDefault || len(existing) == 0 {
			if err := addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
				return errors.Wrap(err, "failed to set default address")
			}
			address.IsDefault = true
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add address")
	}

	srv.log(ctx).Debug("Address added", slog.Any("userID", userID), slog.Any("addressID", address.ID))

	return address, nil
}

// List lists the user's addresses, default first.
func (srv *addressService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// Update edits one of the user's addresses field by field. Addresses of other
// users are reported as not found.
func (srv *addressService) Update(
	ctx context.Context,
	userID, addressID uuid.UUID,
	input usecase.UpdateAddressInput,
) (*entity.Address, error) {
	address, err := srv.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to find address")
	}
	if address.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address belongs to another user")
	}

	if input.Label != nil {
		if !input.Label.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("label must be home, work or other")
		}
		address.Label = *input.Label
	}
	setTrimmed(&address.Street, input.Street)
	setTrimmed(&address.City, input.City)
	setTrimmed(&address.State, input.State)
	setTrimmed(&address.PostalCode, input.PostalCode)
	setTrimmed(&address.Country, input.Country)
	if address.Country == "" {
		address.Country = srv.defaultCountry
	}
	if !address.Snapshot().IsComplete() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("street, city, state and postal code are required")
	}
	address.UpdatedAt = srv.clock.Now()

	makeDefault := input.IsDefault != nil && *input.IsDefault
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		if err := addressRepo.Update(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}
		if makeDefault && !address.IsDefault {
			if err := addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
				return errors.Wrap(err, "failed to set default address")
			}
			address.IsDefault = true
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return nil, errors.Wrap(err, "failed to update address")
	}

	srv.log(ctx).Debug("Address updated", slog.Any("userID", userID), slog.Any("addressID", address.ID))

	return address, nil
}

func setTrimmed(field *string, value *string) {
	if value != nil {
		*field = strings.TrimSpace(*value)
	}
}

// Delete removes one of the user's addresses.
func (srv *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := srv.addressRepo.Delete(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return errors.Wrap(err, "failed to delete address")
	}

	return nil
}

// SetDefault makes addressID the user's only default address.
func (srv *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := srv.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}

		return errors.Wrap(err, "failed to set default address")
	}

	return nil
}
