// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new customer.
type RegisterUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// CreateStaffInput defines the data an admin supplies to create a staff account.
type CreateStaffInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     entity.Role
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ListUsersInput filters the admin user listing.
type ListUsersInput struct {
	Role   *entity.Role
	Limit  int
	Offset int
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
	Cart *entity.Cart
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register creates a customer account and its empty cart in one transaction.
	Register(ctx context.Context, input RegisterUserInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	// CreateStaff creates an admin or delivery account.
	CreateStaff(ctx context.Context, input CreateStaffInput) (*entity.User, error)
	List(ctx context.Context, input ListUsersInput) ([]*entity.User, error)
	// EnsureAdmin creates the bootstrap admin when no account uses its email yet.
	EnsureAdmin(ctx context.Context, input CreateStaffInput) error
}
