package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateDeliveryQR generates a PNG QR code that identifies an order at the doorstep
	GenerateDeliveryQR(orderID uuid.UUID, orderNumber string) ([]byte, error)

	// ParseDeliveryQR parses scanned QR code data and returns the order ID
	ParseDeliveryQR(qrData string) (uuid.UUID, error)
}
