package services

import (
	"github.com/rings-s/anha/internal/models"
)

// Action names a capability a role may or may not hold. Every mutating
// entry point consults Allows before touching the booking lifecycle or
// the data store.
type Action string

const (
	ActionCreateBooking     Action = "booking:create"
	ActionReviewBooking     Action = "booking:review"
	ActionTransitionBooking Action = "booking:transition"
	ActionAssignBooking     Action = "booking:assign"
	ActionManageUsers       Action = "admin:users"
	ActionManageServices    Action = "admin:services"
	ActionManageBookings    Action = "admin:bookings"
)

var capabilities = map[models.Role]map[Action]bool{
	models.RoleClient: {
		ActionCreateBooking: true,
		ActionReviewBooking: true,
	},
	models.RoleEmployee: {
		ActionTransitionBooking: true,
		ActionAssignBooking:     true,
	},
	models.RoleDriver: {
		ActionTransitionBooking: true,
		ActionAssignBooking:     true,
	},
	models.RoleTechnical: {
		ActionTransitionBooking: true,
		ActionAssignBooking:     true,
	},
	models.RoleAdmin: {
		ActionCreateBooking:     true,
		ActionTransitionBooking: true,
		ActionAssignBooking:     true,
		ActionManageUsers:       true,
		ActionManageServices:    true,
		ActionManageBookings:    true,
	},
}

// Allows reports whether a role holds a capability. Pure function over
// the table above; there is no per-user permission state.
func Allows(role models.Role, action Action) bool {
	return capabilities[role][action]
}
