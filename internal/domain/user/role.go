package user

import (
	"fmt"
	"strings"

	"kids-carpool/internal/domain/carpool"
)

// Role is a user role as stored in the `users` table. Every parent can both
// publish rides and request seats; ADMIN exists for directory maintenance.
type Role string

const (
	RoleParent Role = "PARENT"
	RoleAdmin  Role = "ADMIN"
)

var ErrInvalidRole = fmt.Errorf("%w: invalid role", carpool.ErrValidation)

// ParseRole normalizes (uppercases+trims) and validates a role string.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if role.Valid() {
		return role, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether role is one of the allowed role constants.
func (role Role) Valid() bool {
	switch role {
	case RoleParent, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Role.
func (role Role) String() string {
	return string(role)
}

// Convenience helpers.
func (role Role) IsParent() bool { return role == RoleParent }
func (role Role) IsAdmin() bool  { return role == RoleAdmin }
