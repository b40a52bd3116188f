// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleMember indicates a regular gym member who books sessions.
	RoleMember Role = "member"
	// RoleTrainer indicates a personal trainer who serves appointments.
	RoleTrainer Role = "trainer"
	// RoleAdmin indicates an administrator with unrestricted access.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role may see and manage other members' appointments.
func (r Role) IsStaff() bool {
	return r == RoleTrainer || r == RoleAdmin
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// TrainerType classifies trainers and gates which products their members may purchase.
type TrainerType string

const (
	// TrainerTypeStandard is a regular trainer.
	TrainerTypeStandard TrainerType = "standard"
	// TrainerTypeHead is a head trainer whose sessions are sold as separate products.
	TrainerTypeHead TrainerType = "head"
)

// String returns the string representation of the TrainerType.
func (t TrainerType) String() string {
	return string(t)
}

// IsValid checks if the TrainerType is a valid value.
func (t TrainerType) IsValid() bool {
	switch t {
	case TrainerTypeStandard, TrainerTypeHead:
		return true
	default:
		return false
	}
}
