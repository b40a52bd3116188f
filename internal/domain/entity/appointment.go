// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
// These literal values are keyed on by settlement and display logic
// and must not change.
type AppointmentStatus string

const (
	// StatusScheduled is the sole initial state of a booked appointment.
	StatusScheduled AppointmentStatus = "scheduled"
	// StatusCompleted means the session took place. Only the no_show
	// correction may leave this state.
	StatusCompleted AppointmentStatus = "completed"
	// StatusCancelled is terminal; the consumed point was refunded.
	StatusCancelled AppointmentStatus = "cancelled"
	// StatusNoShow is terminal; the member did not attend and no point is refunded.
	StatusNoShow AppointmentStatus = "no_show"
)

// String returns the string representation of the AppointmentStatus.
func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid checks if the AppointmentStatus is a valid value.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Appointment is the central transactional record: one booked session between a
// member and a trainer. Member and trainer names are denormalized at creation
// time so historical records survive later profile changes. Date and StartTime
// are local wall-clock values with no timezone model ("2006-01-02" / "15:04").
type Appointment struct {
	ID              uuid.UUID         // The Global Unique Identifier (GUID) for the appointment.
	MemberID        uuid.UUID         // The member who booked.
	MemberName      string            // Member display name at booking time.
	MemberEmail     string            // Member email at booking time.
	TrainerID       uuid.UUID         // The trainer serving the session.
	TrainerName     string            // Trainer display name at booking time.
	Date            string            // Local calendar date, "2006-01-02".
	StartTime       string            // Local wall time on the half-hour grid, "15:04".
	DurationMinutes int               // Session length copied from the product: 30 or 60.
	Status          AppointmentStatus // Current lifecycle state.
	PointBatchID    *uuid.UUID        // Batch the booking point was deducted from.
	ProductID       *uuid.UUID        // Product behind the consumed batch, for display.
	CreatedAt       time.Time         // Timestamp of when this record was created.
	UpdatedAt       time.Time         // Timestamp of the last modification.
}
