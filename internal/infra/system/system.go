// Package system supplies the wall clock and identifier generation.
package system

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"basket/internal/domain/service"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type systemClock struct{}

// NewClock returns a Clock reading the UTC wall clock.
func NewClock() service.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type idGenerator struct{}

// NewIDGenerator returns an IDGenerator minting UUIDv7 identifiers.
func NewIDGenerator() service.IDGenerator {
	return idGenerator{}
}

// NewID returns a UUIDv7, falling back to a random UUID if the clock source fails.
func (idGenerator) NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// NewOrderNumber formats ORD-<yyyymmdd>-<12 upper-case hex>.
func (idGenerator) NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		id := uuid.New()
		copy(suffix, id[:6])
	}

	return "ORD-" + now.UTC().Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(suffix))
}

// Module provides the clock and ID generator FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewClock, NewIDGenerator),
)
