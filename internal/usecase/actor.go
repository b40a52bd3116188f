// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"ptbook/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation, resolved from the access
// token by the auth middleware. Authorization decisions in the use case layer
// key off the role, never off request payload fields.
type Actor struct {
	UserID uuid.UUID
	Role   entity.Role
}

// IsStaff reports whether the actor holds a trainer or admin role.
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}
