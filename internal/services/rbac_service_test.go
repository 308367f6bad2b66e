package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rings-s/anha/internal/models"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		action Action
		want   bool
	}{
		{"client creates bookings", models.RoleClient, ActionCreateBooking, true},
		{"client reviews bookings", models.RoleClient, ActionReviewBooking, true},
		{"client cannot transition", models.RoleClient, ActionTransitionBooking, false},
		{"client cannot assign", models.RoleClient, ActionAssignBooking, false},
		{"client cannot manage users", models.RoleClient, ActionManageUsers, false},

		{"employee transitions", models.RoleEmployee, ActionTransitionBooking, true},
		{"employee assigns", models.RoleEmployee, ActionAssignBooking, true},
		{"employee cannot create", models.RoleEmployee, ActionCreateBooking, false},
		{"employee cannot review", models.RoleEmployee, ActionReviewBooking, false},
		{"employee cannot manage services", models.RoleEmployee, ActionManageServices, false},

		{"driver transitions", models.RoleDriver, ActionTransitionBooking, true},
		{"technical assigns", models.RoleTechnical, ActionAssignBooking, true},

		{"admin creates", models.RoleAdmin, ActionCreateBooking, true},
		{"admin transitions", models.RoleAdmin, ActionTransitionBooking, true},
		{"admin manages users", models.RoleAdmin, ActionManageUsers, true},
		{"admin manages services", models.RoleAdmin, ActionManageServices, true},
		{"admin manages bookings", models.RoleAdmin, ActionManageBookings, true},
		{"admin does not review", models.RoleAdmin, ActionReviewBooking, false},

		{"unknown role holds nothing", models.Role("ghost"), ActionCreateBooking, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.role, tt.action))
		})
	}
}
