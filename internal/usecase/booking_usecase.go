package usecase

import (
	"context"

	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// GetAvailabilityInput asks for one trainer's calendar starting at StartDate
// ("2006-01-02") for Days consecutive days. The viewer decides how much
// detail busy slots carry.
type GetAvailabilityInput struct {
	Actor     Actor
	TrainerID uuid.UUID
	StartDate string
	Days      int
}

// BookInput defines the data required to book an appointment. MemberID is
// ignored for member actors, who always book for themselves; admins may book
// on a member's behalf.
type BookInput struct {
	Actor           Actor
	MemberID        uuid.UUID
	TrainerID       uuid.UUID
	Date            string
	StartTime       string
	DurationMinutes int
}

// TransitionInput identifies an appointment and the actor driving its
// lifecycle change.
type TransitionInput struct {
	Actor         Actor
	AppointmentID uuid.UUID
}

// ListAppointmentsInput narrows the appointment listing. Scope is enforced by
// role: members see their own, trainers their assigned, admins everything.
type ListAppointmentsInput struct {
	Actor    Actor
	DateFrom string
	DateTo   string
	Status   entity.AppointmentStatus
}

// --- Output DTOs ---

// AvailabilityDay is one calendar day of classified slots.
type AvailabilityDay struct {
	Date  string             `json:"date"`
	Slots []booking.SlotView `json:"slots"`
}

// AvailabilityOutput is the role-projected weekly calendar.
type AvailabilityOutput struct {
	TrainerID   uuid.UUID         `json:"trainerId"`
	TrainerName string            `json:"trainerName"`
	Days        []AvailabilityDay `json:"days"`
}

// BookOutput returns the created appointment. LogWarning is set when the
// audit log append failed; the booking itself still succeeded.
type BookOutput struct {
	Appointment *entity.Appointment
	LogWarning  bool
}

// TransitionOutput returns the appointment after a lifecycle change.
// Refunded reports whether a point went back to the member's ledger.
type TransitionOutput struct {
	Appointment *entity.Appointment
	Refunded    bool
	LogWarning  bool
}

// SweepOutput reports the bulk auto-completion result.
type SweepOutput struct {
	Completed  int
	LogWarning bool
}

// BookingUsecase defines the interface for appointment lifecycle operations.
type BookingUsecase interface {
	GetAvailability(ctx context.Context, input *GetAvailabilityInput) (*AvailabilityOutput, error)
	Book(ctx context.Context, input *BookInput) (*BookOutput, error)
	Cancel(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)
	Complete(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)
	MarkNoShow(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)
	Sweep(ctx context.Context, actor Actor) (*SweepOutput, error)
	ListAppointments(ctx context.Context, input *ListAppointmentsInput) ([]*entity.Appointment, error)
	GetAppointment(ctx context.Context, actor Actor, appointmentID uuid.UUID) (*entity.Appointment, error)
	GetCheckInQR(ctx context.Context, actor Actor, appointmentID uuid.UUID) ([]byte, error)
	CheckIn(ctx context.Context, actor Actor, qrData string) (*TransitionOutput, error)
	ListLogs(ctx context.Context, actor Actor, limit int) ([]*entity.AppointmentLog, error)
}
