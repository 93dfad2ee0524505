package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddressLabel tags a saved address.
type AddressLabel string

const (
	AddressLabelHome  AddressLabel = "home"
	AddressLabelWork  AddressLabel = "work"
	AddressLabelOther AddressLabel = "other"
)

// IsValid checks if the label is one of the known values.
func (l AddressLabel) IsValid() bool {
	switch l {
	case AddressLabelHome, AddressLabelWork, AddressLabelOther:
		return true
	default:
		return false
	}
}

// Address is a saved delivery address of a user.
type Address struct {
	ID         uuid.UUID    // The Global Unique Identifier (GUID) for the address.
	UserID     uuid.UUID    // Owner of the address.
	Label      AddressLabel // home, work or other.
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool      // At most one default address per user.
	CreatedAt  time.Time // Timestamp of when this address was created.
	UpdatedAt  time.Time // Timestamp of the last modification.
}

// Snapshot copies the address into the value stored on an order.
func (a *Address) Snapshot() DeliveryAddress {
	return DeliveryAddress{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// DeliveryAddress is the address copied onto an order at checkout.
// Later edits to the saved address do not affect placed orders.
type DeliveryAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsComplete reports whether every field needed to deliver is present.
func (d DeliveryAddress) IsComplete() bool {
	for _, field := range []string{d.Street, d.City, d.State, d.PostalCode} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}

	return true
}

// WithDefaultCountry fills in the country when the caller left it empty.
func (d DeliveryAddress) WithDefaultCountry(country string) DeliveryAddress {
	if strings.TrimSpace(d.Country) == "" {
		d.Country = country
	}

	return d
}
