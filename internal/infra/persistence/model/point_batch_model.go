package model

import (
	"time"

	"github.com/google/uuid"
)

// PointBatchModel mirrors the 'point_batches' table. Each row is one purchase
// with its own expiry; deduction drains batches oldest-first per duration bucket.
type PointBatchModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MemberID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID `gorm:"type:uuid"`
	DurationMinutes int        `gorm:"not null"`
	OriginalPoints  int        `gorm:"not null"`
	RemainingPoints int        `gorm:"not null"`
	PurchaseDate    time.Time  `gorm:"not null"`
	ExpiryDate      time.Time  `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (PointBatchModel) TableName() string {
	return "point_batches"
}
