// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentLogRepository is the append-only audit trail of appointment
// state transitions. Entries are never updated or deleted. Appends are
// best-effort from the caller's perspective: the use case layer records a
// failure server-side but never fails the transition over it.
type AppointmentLogRepository interface {
	// Append persists one transition record.
	Append(ctx context.Context, log *entity.AppointmentLog) error

	// FindByAppointment retrieves the transition history of one appointment,
	// oldest first.
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*entity.AppointmentLog, error)

	// FindRecent retrieves the newest entries across all appointments for the
	// admin audit view.
	FindRecent(ctx context.Context, limit int) ([]*entity.AppointmentLog, error)
}
