package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups products for browsing. Products of an inactive category
// are hidden from the public catalog.
type Category struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the category.
	Name        string    // Unique display name.
	Image       string    // Image URL shown in the storefront.
	Description string
	IsActive    bool
	CreatedAt   time.Time // Timestamp of when the category was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}

// NormalizeCategoryName trims the name; uniqueness is checked on the result.
func NormalizeCategoryName(name string) string {
	return strings.TrimSpace(name)
}
