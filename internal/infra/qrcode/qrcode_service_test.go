package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeService_GenerateCheckInQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	appointmentID := uuid.New()

	pngBytes, err := svc.GenerateCheckInQR(appointmentID)
	require.NoError(t, err)
	assert.NotEmpty(t, pngBytes)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, pngBytes[:4])
}

func TestQRCodeService_ParseCheckInQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	appointmentID := uuid.New()

	payload, err := json.Marshal(QRCodeData{
		AppointmentID: appointmentID.String(),
		Type:          "checkin",
	})
	require.NoError(t, err)

	parsed, err := svc.ParseCheckInQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, appointmentID, parsed)
}

func TestQRCodeService_ParseCheckInQR_InvalidType(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	payload, err := json.Marshal(QRCodeData{
		AppointmentID: uuid.New().String(),
		Type:          "subscription",
	})
	require.NoError(t, err)

	_, err = svc.ParseCheckInQR(string(payload))
	assert.ErrorContains(t, err, "invalid QR code type")
}

func TestQRCodeService_ParseCheckInQR_Malformed(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParseCheckInQR("not-json")
	assert.Error(t, err)

	payload, marshalErr := json.Marshal(QRCodeData{
		AppointmentID: "not-a-uuid",
		Type:          "checkin",
	})
	assert.NoError(t, marshalErr)

	_, err = svc.ParseCheckInQR(string(payload))
	assert.ErrorContains(t, err, "failed to parse appointment ID")
}

func TestNewQRCodeService_DefaultsUnknownLevel(t *testing.T) {
	// Unknown correction levels fall back to Medium rather than failing.
	svc := NewQRCodeService(128, "X")
	pngBytes, err := svc.GenerateCheckInQR(uuid.New())
	assert.NoError(t, err)
	assert.NotEmpty(t, pngBytes)
}
