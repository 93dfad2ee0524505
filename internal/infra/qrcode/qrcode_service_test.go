package qrcode

import (
	"encoding/json"
	"testing"

	"basket/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNG(t *testing.T, data []byte) {
	t.Helper()

	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, data[:4])
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			require.NotNil(t, service)

			png, err := service.GenerateDeliveryQR(uuid.New(), "ORD-20260301-0A1B2C3D4E5F")
			require.NoError(t, err)
			assertPNG(t, png)
		})
	}
}

func TestNewQRCodeServiceFromConfig(t *testing.T) {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "H"}}

	service := NewQRCodeServiceFromConfig(cfg).(*qrcodeService)
	assert.Equal(t, 128, service.size)

	fallback := NewQRCodeServiceFromConfig(&config.Config{}).(*qrcodeService)
	assert.Equal(t, defaultSize, fallback.size)
}

func TestQRCodeService_ParseDeliveryQR(t *testing.T) {
	service := NewQRCodeService(256, "M")
	orderID := uuid.New()

	tests := []struct {
		name    string
		payload DeliveryCode
		want    uuid.UUID
		wantErr bool
	}{
		{
			name:    "valid delivery code",
			payload: DeliveryCode{OrderID: orderID.String(), OrderNumber: "ORD-1", Type: "delivery"},
			want:    orderID,
		},
		{
			name:    "wrong type",
			payload: DeliveryCode{OrderID: orderID.String(), Type: "subscription"},
			wantErr: true,
		},
		{
			name:    "bad order id",
			payload: DeliveryCode{OrderID: "not-a-uuid", Type: "delivery"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			got, err := service.ParseDeliveryQR(string(raw))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, got)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQRCodeService_ParseDeliveryQR_NotJSON(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.ParseDeliveryQR("https://example.com")
	assert.Error(t, err)
}
