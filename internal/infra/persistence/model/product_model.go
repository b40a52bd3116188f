package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name            string    `gorm:"type:varchar(100);not null"`
	DurationMinutes int       `gorm:"not null"`
	Points          int       `gorm:"not null"`
	Price           int       `gorm:"not null"`
	TrainerType     string    `gorm:"type:varchar(20);not null"`
	IsActive        bool      `gorm:"not null;default:true;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
