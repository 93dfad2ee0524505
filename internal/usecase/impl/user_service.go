// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

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

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	clock        service.Clock
	ids          service.IDGenerator
	logger       *slog.Logger
}

// registration describes one account to create.
type registration struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     entity.Role
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Clock        service.Clock
	IDs          service.IDGenerator
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		clock:        params.Clock,
		ids:          params.IDs,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a customer account and its empty cart in one transaction.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	return srv.executeRegistration(ctx, registration{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     entity.RoleCustomer,
	})
}

// CreateStaff creates an admin or delivery account. Staff accounts get a cart
// too, so every user owns exactly one.
func (srv *userService) CreateStaff(ctx context.Context, input usecase.CreateStaffInput) (*entity.User, error) {
	if !input.Role.IsStaff() {
		return nil, errors.Wrap(domainerrors.ErrInvalidRole, "staff role must be admin or delivery")
	}

	out, err := srv.executeRegistration(ctx, registration{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return nil, err
	}

	return out.User, nil
}

// EnsureAdmin creates the bootstrap admin unless the email is already registered.
func (srv *userService) EnsureAdmin(ctx context.Context, input usecase.CreateStaffInput) error {
	_, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to look up bootstrap admin")
	}

	input.Role = entity.RoleAdmin
	if _, err := srv.CreateStaff(ctx, input); err != nil {
		return errors.Wrap(err, "failed to create bootstrap admin")
	}

	srv.log(ctx).Info("Bootstrap admin created", slog.String("email", input.Email))

	return nil
}

func (srv *userService) executeRegistration(ctx context.Context, reg registration) (*usecase.RegisterOutput, error) {
	reg.Email = normalizeEmail(reg.Email)
	srv.log(ctx).Info("Starting registration", slog.Any("role", reg.Role), slog.String("email", reg.Email))

	if reg.Email == "" || strings.TrimSpace(reg.Name) == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "name and email are required")
	}

	if err := srv.hasher.ValidatePasswordStrength(reg.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", reg.Email), slog.Any("error", err))

		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	hashedPassword, err := srv.hasher.Hash(reg.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	now := srv.clock.Now()
	user := &entity.User{
		ID:           srv.ids.NewID(),
		Email:        reg.Email,
		Name:         strings.TrimSpace(reg.Name),
		Phone:        reg.Phone,
		PasswordHash: hashedPassword,
		Role:         reg.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	cart := entity.NewCart(srv.ids.NewID(), user.ID, now)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewUserRepository().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
			}

			return errors.Wrap(err, "failed to create user during registration")
		}

		if err := repoFactory.NewCartRepository().Create(ctx, cart); err != nil {
			return errors.Wrap(err, "failed to create cart during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", reg.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("role", reg.Role), slog.Any("userID", user.ID))

	return &usecase.RegisterOutput{User: user, Cart: cart}, nil
}

// Login verifies the credentials and issues tokens.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user for login")
	}

	// bcrypt is CPU-bound; keep it outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
		User:         user,
	}, nil
}

// GetProfile returns the user's account.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// List lists accounts, optionally by role.
func (srv *userService) List(ctx context.Context, input usecase.ListUsersInput) ([]*entity.User, error) {
	if input.Role != nil && !input.Role.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrInvalidRole, "unknown role filter")
	}

	users, err := srv.userRepo.List(ctx, input.Role, normalizeLimit(input.Limit), input.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
