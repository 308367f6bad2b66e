package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do. Staff roles fulfil
// bookings, clients create them, admins manage everything.
type Role string

const (
	RoleClient    Role = "client"
	RoleEmployee  Role = "employee"
	RoleDriver    Role = "driver"
	RoleTechnical Role = "technical"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a raw role string from request input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleEmployee, RoleDriver, RoleTechnical, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role may be assigned to bookings and move
// them through their lifecycle.
func (r Role) IsStaff() bool {
	switch r {
	case RoleEmployee, RoleDriver, RoleTechnical, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Phone        string    `json:"phone" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the authenticated principal attached to a request after
// the access token has been resolved against an active user row.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}
