package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for appointment check-in QR codes.
// The member presents the code at the gym; staff scan it to pull up the
// appointment and mark it completed.
type QRCodeService interface {
	// GenerateCheckInQR renders a PNG QR code identifying one appointment.
	GenerateCheckInQR(appointmentID uuid.UUID) ([]byte, error)

	// ParseCheckInQR decodes scanned QR payload back into the appointment ID.
	ParseCheckInQR(qrData string) (uuid.UUID, error)
}
