package service

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Pricing decisions take "now" from it.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints identifiers for new records.
type IDGenerator interface {
	// NewID returns a time-ordered UUID.
	NewID() uuid.UUID

	// NewOrderNumber returns a human-facing order number for an order placed at now.
	NewOrderNumber(now time.Time) string
}
