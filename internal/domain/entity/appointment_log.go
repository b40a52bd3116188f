// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// LogAction identifies the state transition an audit entry records.
type LogAction string

const (
	// LogActionBooked records appointment creation.
	LogActionBooked LogAction = "booked"
	// LogActionCancelled records a cancellation.
	LogActionCancelled LogAction = "cancelled"
	// LogActionCompleted records completion, manual or via the bulk sweep.
	LogActionCompleted LogAction = "completed"
	// LogActionNoShow records a no-show mark, including the completed correction.
	LogActionNoShow LogAction = "no_show"
)

// String returns the string representation of the LogAction.
func (a LogAction) String() string {
	return string(a)
}

// AppointmentLog is an immutable, append-only audit record of one appointment
// state transition. It snapshots the appointment's identifying fields at the
// moment of the transition and is never mutated or deleted. Writes are
// best-effort: a failed append must not roll back the transition it records.
type AppointmentLog struct {
	ID            uuid.UUID // The Global Unique Identifier (GUID) for the log entry.
	AppointmentID uuid.UUID // The appointment the transition applies to.
	Action        LogAction // Which transition happened.
	ActorID       uuid.UUID // Who performed it.
	ActorRole     Role      // Their role at the time.
	MemberName    string    // Snapshot of the appointment's member name.
	TrainerName   string    // Snapshot of the appointment's trainer name.
	Date          string    // Snapshot of the appointment date, "2006-01-02".
	StartTime     string    // Snapshot of the appointment start time, "15:04".
	CreatedAt     time.Time // When the transition was recorded.
}
