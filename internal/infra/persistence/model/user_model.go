package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email             string     `gorm:"type:varchar(255);unique;not null"`
	Name              string     `gorm:"type:varchar(100);not null"`
	Role              string     `gorm:"type:varchar(20);not null;index"`
	AssignedTrainerID *uuid.UUID `gorm:"type:uuid;index"`
	TrainerType       string     `gorm:"type:varchar(20)"`
	PushToken         string     `gorm:"type:varchar(255)"`
	IsActive          bool       `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Credential    *CredentialModel    `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
