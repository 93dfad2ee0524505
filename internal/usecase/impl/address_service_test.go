package impl

import (
	"context"
	"testing"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	mockRepo "basket/internal/mocks/repository"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type addressServiceFixtures struct {
	service     usecase.AddressUsecase
	txManager   *mockRepo.MockTransactionManager
	addressRepo *mockRepo.MockAddressRepository
}

func createTestAddressService(t *testing.T) addressServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	addressRepo := mockRepo.NewMockAddressRepository(t)

	service := NewAddressService(AddressServiceParams{
		TxManager:   txManager,
		AddressRepo: addressRepo,
		Clock:       newFakeClock(),
		IDs:         &sequentialIDs{},
		Config:      newTestConfig(),
		Logger:      newDiscardLogger(),
	})

	return addressServiceFixtures{service: service, txManager: txManager, addressRepo: addressRepo}
}

func (fx addressServiceFixtures) expectAddTx(t *testing.T, ctx context.Context, userID uuid.UUID, existing []*entity.Address, wantDefault bool) {
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			txAddressRepo := mockRepo.NewMockAddressRepository(t)
			mockFactory.EXPECT().NewAddressRepository().Return(txAddressRepo)

			txAddressRepo.EXPECT().ListByUser(ctx, userID).Return(existing, nil)
			txAddressRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Address")).Return(nil)
			if wantDefault {
				txAddressRepo.EXPECT().SetDefault(ctx, userID, mock.AnythingOfType("uuid.UUID")).Return(nil)
			}

			return fn(mockFactory)
		})
}

func TestAddressService_Add_FirstBecomesDefault(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.expectAddTx(t, ctx, userID, nil, true)

	address, err := fx.service.Add(ctx, userID, usecase.AddAddressInput{
		Street: " 12 MG Road ", City: "Pune", State: "MH", PostalCode: "411001",
	})
	require.NoError(t, err)
	assert.True(t, address.IsDefault)
	assert.Equal(t, entity.AddressLabelOther, address.Label)
	assert.Equal(t, "India", address.Country)
	assert.Equal(t, "12 MG Road", address.Street)
}

func TestAddressService_Add_SecondKeepsDefault(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()
	existing := []*entity.Address{{ID: uuid.New(), UserID: userID, IsDefault: true}}

	fx.expectAddTx(t, ctx, userID, existing, false)

	address, err := fx.service.Add(ctx, userID, usecase.AddAddressInput{
		Label: entity.AddressLabelWork, Street: "1 Tech Park", City: "Pune", State: "MH", PostalCode: "411057", Country: "India",
	})
	require.NoError(t, err)
	assert.False(t, address.IsDefault)
}

func TestAddressService_Add_Validation(t *testing.T) {
	fx := createTestAddressService(t)

	_, err := fx.service.Add(context.Background(), uuid.New(), usecase.AddAddressInput{Label: "cabin", Street: "x", City: "y", State: "z", PostalCode: "1"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.Add(context.Background(), uuid.New(), usecase.AddAddressInput{Street: "x", City: "y"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAddressService_Delete_NotFound(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID, addressID := uuid.New(), uuid.New()

	fx.addressRepo.EXPECT().Delete(ctx, userID, addressID).Return(repository.ErrAddressNotFound)

	err := fx.service.Delete(ctx, userID, addressID)
	require.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestAddressService_SetDefault(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID, addressID := uuid.New(), uuid.New()

	fx.addressRepo.EXPECT().SetDefault(ctx, userID, addressID).Return(nil)

	require.NoError(t, fx.service.SetDefault(ctx, userID, addressID))
}

func TestAddressService_Update_PartialAndDefault(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()
	stored := &entity.Address{
		ID: uuid.New(), UserID: userID, Label: entity.AddressLabelHome,
		Street: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001", Country: "India",
	}
	fx.addressRepo.EXPECT().FindByID(ctx, stored.ID).Return(stored, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			txAddressRepo := mockRepo.NewMockAddressRepository(t)
			mockFactory.EXPECT().NewAddressRepository().Return(txAddressRepo)

			txAddressRepo.EXPECT().
				Update(ctx, mock.MatchedBy(func(a *entity.Address) bool {
					return a.Street == "7 FC Road" && a.City == "Pune" && a.Label == entity.AddressLabelWork
				})).
				Return(nil)
			txAddressRepo.EXPECT().SetDefault(ctx, userID, stored.ID).Return(nil)

			return fn(mockFactory)
		})

	label := entity.AddressLabelWork
	street := " 7 FC Road "
	makeDefault := true
	address, err := fx.service.Update(ctx, userID, stored.ID, usecase.UpdateAddressInput{
		Label: &label, Street: &street, IsDefault: &makeDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, "7 FC Road", address.Street)
	assert.Equal(t, "411001", address.PostalCode)
	assert.True(t, address.IsDefault)
}

func TestAddressService_Update_OtherUsersAddress(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	stored := &entity.Address{ID: uuid.New(), UserID: uuid.New(), Street: "x", City: "y", State: "z", PostalCode: "1"}
	fx.addressRepo.EXPECT().FindByID(ctx, stored.ID).Return(stored, nil)

	street := "elsewhere"
	_, err := fx.service.Update(ctx, uuid.New(), stored.ID, usecase.UpdateAddressInput{Street: &street})
	require.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestAddressService_Update_Validation(t *testing.T) {
	fx := createTestAddressService(t)
	ctx := context.Background()
	userID := uuid.New()
	stored := &entity.Address{ID: uuid.New(), UserID: userID, Street: "x", City: "y", State: "z", PostalCode: "1"}
	fx.addressRepo.EXPECT().FindByID(ctx, stored.ID).Return(stored, nil).Times(2)

	blank := "  "
	_, err := fx.service.Update(ctx, userID, stored.ID, usecase.UpdateAddressInput{City: &blank})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	cabin := entity.AddressLabel("cabin")
	_, err = fx.service.Update(ctx, userID, stored.ID, usecase.UpdateAddressInput{Label: &cabin})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
