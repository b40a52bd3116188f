package service

import (
	"context"
)

// AppointmentEvent is published after every successful appointment state
// transition for downstream consumers (reminders, analytics). Publishing is
// best-effort; a failed publish never rolls back the transition.
type AppointmentEvent struct {
	RequestID     string `json:"request_id,omitempty"` // For distributed tracing
	AppointmentID string `json:"appointment_id"`
	Action        string `json:"action"` // booked, cancelled, completed, no_show
	MemberID      string `json:"member_id"`
	TrainerID     string `json:"trainer_id"`
	Date          string `json:"date"`       // "2006-01-02"
	StartTime     string `json:"start_time"` // "15:04"
	ActorRole     string `json:"actor_role"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAppointmentEvent publishes an appointment transition for async processing
	PublishAppointmentEvent(ctx context.Context, event *AppointmentEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
