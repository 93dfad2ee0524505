// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account of the storefront: a shopper, a store admin or a delivery person.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // Login identifier, stored lower-cased.
	Name         string    // Display name.
	Phone        string    // Contact number used by delivery staff.
	PasswordHash string    // bcrypt hash, never serialized.
	Role         Role      // Exactly one role per account.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// Roles returns the user's role as a Roles slice for token claims.
func (u *User) Roles() Roles {
	return Roles{u.Role}
}
