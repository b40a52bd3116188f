// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// One record covers all three roles; role-specific fields are only meaningful for
// the matching role.
type User struct {
	ID                uuid.UUID   // The Global Unique Identifier (GUID) for the user.
	Email             string      // The user's primary contact email, used as the login identifier.
	Name              string      // The user's display name or real name.
	Role              Role        // member, trainer or admin.
	AssignedTrainerID *uuid.UUID  // For members: the trainer chosen at signup. Nil for staff.
	TrainerType       TrainerType // For trainers: standard or head. Empty for other roles.
	PushToken         string      // FCM device token registered by the client app. Empty when push is off.
	IsActive          bool        // Inactive users cannot log in and cannot be assigned to members.
	CreatedAt         time.Time   // Timestamp of when this user account was created.
	UpdatedAt         time.Time   // Timestamp of the last modification to this user's data.
}

// CanBeAssigned reports whether this user may serve as a member's assigned trainer.
func (u *User) CanBeAssigned() bool {
	return u != nil && u.Role == RoleTrainer && u.IsActive
}
