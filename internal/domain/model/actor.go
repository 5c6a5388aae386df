package model

import (
	"strings"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
)

// Role describes the authority of the caller. Identity itself is established
// upstream; every mutating operation receives an explicit Actor.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalizes a case-insensitive role token.
func ParseRole(token string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "STAFF":
		return RoleStaff, nil
	case "CUSTOMER":
		return RoleCustomer, nil
	default:
		return "", domainErrors.ErrForbidden
	}
}

// Actor identifies who performs a mutation.
type Actor struct {
	UserID int64
	Role   Role
}

// IsStaff reports staff-level authority (staff or admin).
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// IsCustomer reports whether the actor is a plain customer.
func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
