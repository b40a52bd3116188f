package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentModel mirrors the 'appointments' table. Member and trainer names
// are denormalized at booking time so historic rows survive account changes.
//
// The partial unique index on (trainer_id, date, start_time) closes the
// concurrent double-booking window: the second committer of the same slot gets
// a constraint violation instead of a silent overlap. Cancelled rows are
// excluded so a freed slot can be rebooked.
type AppointmentModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MemberID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	MemberName      string     `gorm:"type:varchar(100);not null"`
	MemberEmail     string     `gorm:"type:varchar(255);not null"`
	TrainerID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_trainer_slot,where:status <> 'cancelled'"`
	TrainerName     string     `gorm:"type:varchar(100);not null"`
	Date            string     `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_trainer_slot,where:status <> 'cancelled'"`
	StartTime       string     `gorm:"type:varchar(5);not null;uniqueIndex:idx_trainer_slot,where:status <> 'cancelled'"`
	DurationMinutes int        `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;index"`
	PointBatchID    *uuid.UUID `gorm:"type:uuid"`
	ProductID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (AppointmentModel) TableName() string {
	return "appointments"
}

// AppointmentLogModel mirrors the 'appointment_logs' table, an append-only
// audit trail of booking actions.
type AppointmentLogModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action        string    `gorm:"type:varchar(20);not null"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole     string    `gorm:"type:varchar(20);not null"`
	MemberName    string    `gorm:"type:varchar(100);not null"`
	TrainerName   string    `gorm:"type:varchar(100);not null"`
	Date          string    `gorm:"type:varchar(10);not null"`
	StartTime     string    `gorm:"type:varchar(5);not null"`
	CreatedAt     time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (AppointmentLogModel) TableName() string {
	return "appointment_logs"
}
