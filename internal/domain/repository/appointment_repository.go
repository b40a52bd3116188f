// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for appointment persistence.
var (
	// ErrAppointmentNotFound is returned when an appointment is not found.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrSlotTaken is returned when the unique (trainer, date, time) constraint
	// rejects an insert. It is the database-level backstop behind the
	// availability check, closing the concurrent double-booking race.
	ErrSlotTaken = errors.New("slot already taken")
)

// AppointmentFilter narrows appointment queries. Zero fields are ignored.
// Both dates are inclusive, "2006-01-02".
type AppointmentFilter struct {
	TrainerID *uuid.UUID
	MemberID  *uuid.UUID
	DateFrom  string
	DateTo    string
	Status    entity.AppointmentStatus
}

// AppointmentRepository defines the standard operations for appointment persistence.
type AppointmentRepository interface {
	// Find retrieves appointments matching the filter, ordered by date and start time.
	Find(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, error)

	// FindByID retrieves a single appointment by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// Create persists a new appointment. Returns ErrSlotTaken when the
	// slot-uniqueness constraint rejects the row.
	Create(ctx context.Context, appointment *entity.Appointment) error

	// UpdateStatus moves an appointment to a new lifecycle status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error

	// FindSweepCandidates retrieves every scheduled appointment dated strictly
	// before today, or dated today with a start time before the cutoff, for
	// the bulk auto-completion sweep.
	FindSweepCandidates(ctx context.Context, today, cutoff string) ([]*entity.Appointment, error)
}
