// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"basket/config"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

const defaultMinPasswordLength = 8

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	hasher := &bcryptHasher{
		cost:     bcrypt.DefaultCost,
		strength: config.PasswordStrengthConfig{MinLength: defaultMinPasswordLength},
	}
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		hasher.strength = *cfg.PasswordStrength
	}

	return hasher
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidatePasswordStrength checks the password against the configured rules.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	rules := h.strength
	length := len([]rune(password))

	if length < max(rules.MinLength, 1) {
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}
	// bcrypt ignores everything past 72 bytes.
	if (rules.MaxLength > 0 && length > rules.MaxLength) || len(password) > 72 {
		return domainerrors.ErrValidationFailed.WithDetails("password is too long")
	}
	if rules.RequireUppercase && !strings.ContainsFunc(password, unicode.IsUpper) {
		return domainerrors.ErrValidationFailed.WithDetails("password needs an uppercase letter")
	}
	if rules.RequireLowercase && !strings.ContainsFunc(password, unicode.IsLower) {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a lowercase letter")
	}
	if rules.RequireNumbers && !strings.ContainsFunc(password, unicode.IsDigit) {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a digit")
	}
	if rules.RequireSpecial && !strings.ContainsFunc(password, isSpecial) {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a special character")
	}

	return nil
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
