package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus tracks a booking through its lifecycle:
// requested -> assigned -> in_progress -> completed, with cancelled
// reachable from any non-terminal state. Transitions are role-guarded
// only; no adjacency table is enforced.
type BookingStatus string

const (
	StatusRequested  BookingStatus = "requested"
	StatusAssigned   BookingStatus = "assigned"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// AllBookingStatuses lists every valid status, in lifecycle order.
var AllBookingStatuses = []BookingStatus{
	StatusRequested, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled,
}

// ParseBookingStatus validates a raw status string from request input.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusRequested, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

type Booking struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	ClientID           uuid.UUID     `json:"client_id" db:"client_id"`
	ServiceID          uuid.UUID     `json:"service_id" db:"service_id"`
	Status             BookingStatus `json:"status" db:"status"`
	Price              float64       `json:"price" db:"price"` // snapshot of the service price at creation
	ContactName        string        `json:"contact_name" db:"contact_name"`
	ContactPhone       string        `json:"contact_phone" db:"contact_phone"`
	Description        string        `json:"description" db:"description"`
	LocationLat        *float64      `json:"location_lat" db:"location_lat"`
	LocationLng        *float64      `json:"location_lng" db:"location_lng"`
	AddressText        string        `json:"address_text" db:"address_text"`
	AssignedEmployeeID *uuid.UUID    `json:"assigned_employee_id" db:"assigned_employee_id"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	ClientID *uuid.UUID
	Status   *BookingStatus
	Limit    int
	Offset   int
}
