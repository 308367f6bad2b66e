package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/services"
)

// BookingHandlers handles booking lifecycle HTTP requests.
type BookingHandlers struct {
	bookingService services.BookingServiceInterface
}

func NewBookingHandlers(bookingService services.BookingServiceInterface) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService}
}

// CreateBookingRequest represents the booking creation payload.
type CreateBookingRequest struct {
	ServiceID    string   `json:"service_id" validate:"required,uuid"`
	ClientID     *string  `json:"client_id"` // admin only, book on behalf of a client
	ContactName  string   `json:"contact_name" validate:"required"`
	ContactPhone string   `json:"contact_phone" validate:"required"`
	Description  string   `json:"description"`
	LocationLat  *float64 `json:"location_lat"`
	LocationLng  *float64 `json:"location_lng"`
	AddressText  string   `json:"address_text"`
}

// Create opens a new booking for the authenticated user.
func (h *BookingHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	serviceID, err := common.ValidateUUID(req.ServiceID, "service_id")
	if err != nil {
		return httpError(err)
	}

	input := &services.CreateBookingInput{
		ServiceID:    serviceID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Description:  req.Description,
		LocationLat:  req.LocationLat,
		LocationLng:  req.LocationLng,
		AddressText:  req.AddressText,
	}
	if req.ClientID != nil && *req.ClientID != "" {
		clientID, err := common.ValidateUUID(*req.ClientID, "client_id")
		if err != nil {
			return httpError(err)
		}
		input.ClientID = &clientID
	}

	booking, err := h.bookingService.Create(ctx, identity, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// List returns bookings visible to the caller, newest first. Supports
// ?status=, ?limit= and ?offset=.
func (h *BookingHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	var status *models.BookingStatus
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := models.ParseBookingStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = &parsed
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	bookings, err := h.bookingService.List(ctx, identity, status, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get returns a single booking.
func (h *BookingHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	booking, err := h.bookingService.GetByID(ctx, identity, bookingID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// TransitionRequest represents the status change payload.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// Transition sets a booking's status.
func (h *BookingHandlers) Transition(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	status, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.Transition(ctx, identity, bookingID, status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// AssignRequest represents the assignment payload.
type AssignRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
}

// Assign sets the employee fulfilling a booking.
func (h *BookingHandlers) Assign(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	employeeID, err := common.ValidateUUID(req.EmployeeID, "employee_id")
	if err != nil {
		return httpError(err)
	}

	booking, err := h.bookingService.Assign(ctx, identity, bookingID, employeeID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// ReviewRequest represents the review payload.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SubmitReview records the client's rating once the booking completes.
func (h *BookingHandlers) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	review, err := h.bookingService.SubmitReview(ctx, identity, bookingID, req.Rating, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}
