package impl

import (
	"context"
	"testing"
	"time"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	mockRepo "basket/internal/mocks/repository"
	mockSvc "basket/internal/mocks/service"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service      usecase.UserUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Clock:        newFakeClock(),
		IDs:          &sequentialIDs{},
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

// expectRegistrationTx runs the transaction body against fresh mocks. The
// user insert returns createErr; the cart insert is expected only on success.
func (fx userServiceFixtures) expectRegistrationTx(t *testing.T, ctx context.Context, createErr error) {
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			txUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().NewUserRepository().Return(txUserRepo)
			txUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Return(createErr)

			if createErr == nil {
				txCartRepo := mockRepo.NewMockCartRepository(t)
				mockFactory.EXPECT().NewCartRepository().Return(txCartRepo)
				txCartRepo.EXPECT().
					Create(ctx, mock.MatchedBy(func(c *entity.Cart) bool { return c.IsEmpty() })).
					Return(nil)
			}

			return fn(mockFactory)
		})
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    " Test@Example.com ",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.expectRegistrationTx(t, ctx, nil)

	output, err := fx.service.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", output.User.Email)
	assert.Equal(t, entity.RoleCustomer, output.User.Role)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
	assert.Equal(t, output.User.ID, output.Cart.UserID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.RegisterUserInput{Name: "Dup", Email: "dup@example.com", Password: "Password123!"}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.expectRegistrationTx(t, ctx, repository.ErrDuplicateEmail)

	_, err := fx.service.Register(ctx, input)
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.RegisterUserInput{Name: "Weak", Email: "weak@example.com", Password: "abc"}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(errors.New("password must be at least 8 characters"))

	_, err := fx.service.Register(ctx, input)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Register_MissingName(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Register(context.Background(), usecase.RegisterUserInput{Email: "a@example.com", Password: "Password123!"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_CreateStaff_RejectsCustomerRole(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.CreateStaff(context.Background(), usecase.CreateStaffInput{
		Name: "Not Staff", Email: "c@example.com", Password: "Password123!", Role: entity.RoleCustomer,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidRole)
}

func TestUserService_CreateStaff_Delivery(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateStaffInput{Name: "Rider", Email: "rider@example.com", Password: "Password123!", Role: entity.RoleDelivery}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.expectRegistrationTx(t, ctx, nil)

	user, err := fx.service.CreateStaff(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDelivery, user.Role)
}

func TestUserService_EnsureAdmin_Existing(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "admin@example.com").Return(&entity.User{ID: uuid.New()}, nil)

	err := fx.service.EnsureAdmin(ctx, usecase.CreateStaffInput{Email: "Admin@example.com"})
	require.NoError(t, err)
}

func TestUserService_EnsureAdmin_Creates(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := usecase.CreateStaffInput{Name: "Root", Email: "admin@example.com", Password: "Password123!"}

	fx.userRepo.EXPECT().FindByEmail(ctx, "admin@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed", nil)
	fx.expectRegistrationTx(t, ctx, nil)

	require.NoError(t, fx.service.EnsureAdmin(ctx, input))
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: "hashed", Role: entity.RoleCustomer}

	fx.userRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", "hashed").Return(true)
	fx.tokenService.EXPECT().GenerateTokens(user.ID, []string{"customer"}).Return("access", "refresh", nil)
	fx.tokenService.EXPECT().GetAccessTokenDuration().Return(15 * time.Minute)

	output, err := fx.service.Login(ctx, usecase.LoginInput{Email: "TEST@example.com", Password: "Password123!"})
	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, "refresh", output.RefreshToken)
	assert.Equal(t, int64(900), output.ExpiresIn)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	_, err := fx.service.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "x"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: "hashed"}
	fx.userRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", "hashed").Return(false)
	_, err = fx.service.Login(ctx, usecase.LoginInput{Email: "test@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.GetProfile(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_List_ByRole(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	role := entity.RoleDelivery

	fx.userRepo.EXPECT().List(ctx, &role, 10, 5).Return([]*entity.User{{ID: uuid.New(), Role: role}}, nil)

	users, err := fx.service.List(ctx, usecase.ListUsersInput{Role: &role, Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	bogus := entity.Role("root")
	_, err = fx.service.List(ctx, usecase.ListUsersInput{Role: &bogus})
	require.ErrorIs(t, err, domainerrors.ErrInvalidRole)
}
