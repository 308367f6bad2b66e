package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
	"github.com/rings-s/anha/internal/services"
)

// AdminHandlers handles the admin-only management surface: user CRUD,
// booking oversight, platform stats and exports.
type AdminHandlers struct {
	userService   services.UserServiceInterface
	reportService services.ReportServiceInterface
	bookingRepo   repositories.BookingRepository
	serviceRepo   repositories.ServiceRepository
	reviewRepo    repositories.ReviewRepository
	userRepo      repositories.UserRepository
}

func NewAdminHandlers(
	userService services.UserServiceInterface,
	reportService services.ReportServiceInterface,
	bookingRepo repositories.BookingRepository,
	serviceRepo repositories.ServiceRepository,
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
) *AdminHandlers {
	return &AdminHandlers{
		userService:   userService,
		reportService: reportService,
		bookingRepo:   bookingRepo,
		serviceRepo:   serviceRepo,
		reviewRepo:    reviewRepo,
		userRepo:      userRepo,
	}
}

// AdminUserRequest represents the admin user create/update payload.
type AdminUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password"` // required on create, ignored on update
	Role     string `json:"role" validate:"required"`
	IsActive bool   `json:"is_active"`
}

func (r *AdminUserRequest) toInput() (*services.AdminUserInput, error) {
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidInput, err)
	}
	return &services.AdminUserInput{
		Email:    r.Email,
		FullName: r.FullName,
		Phone:    r.Phone,
		Password: r.Password,
		Role:     role,
		IsActive: r.IsActive,
	}, nil
}

// ListUsers returns all users, paginated.
func (h *AdminHandlers) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.userService.List(ctx, identity, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser adds a user with any role.
func (h *AdminHandlers) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	var req AdminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	input, err := req.toInput()
	if err != nil {
		return httpError(err)
	}

	user, err := h.userService.Create(ctx, identity, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser edits a user's profile, role and active flag.
func (h *AdminHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req AdminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	input, err := req.toInput()
	if err != nil {
		return httpError(err)
	}

	user, err := h.userService.Update(ctx, identity, id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user together with their bookings, reviews and
// reset tokens. Self-deletion is rejected.
func (h *AdminHandlers) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	if err := h.userService.Delete(ctx, identity, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStaff returns users holding a staff role, for assignment pickers.
func (h *AdminHandlers) ListStaff(c echo.Context) error {
	ctx := c.Request().Context()

	staffRoles := []models.Role{models.RoleEmployee, models.RoleDriver, models.RoleTechnical}
	users, err := h.userRepo.ListByRoles(ctx, staffRoles)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateBookingRequest represents the admin booking edit payload.
// Writes are last-write-wins; there is no version check. A nil status
// or assignee leaves the field unchanged; an empty assignee string
// clears the assignment.
type UpdateBookingRequest struct {
	ContactName        string   `json:"contact_name"`
	ContactPhone       string   `json:"contact_phone"`
	Description        string   `json:"description"`
	LocationLat        *float64 `json:"location_lat"`
	LocationLng        *float64 `json:"location_lng"`
	AddressText        string   `json:"address_text"`
	Status             *string  `json:"status"`
	AssignedEmployeeID *string  `json:"assigned_employee_id"`
}

// UpdateBooking edits a booking's contact and location details, and
// optionally its status and assignment. The assignee must hold a staff
// role.
func (h *AdminHandlers) UpdateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	booking, err := h.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}

	booking.ContactName = req.ContactName
	booking.ContactPhone = req.ContactPhone
	booking.Description = req.Description
	booking.LocationLat = req.LocationLat
	booking.LocationLng = req.LocationLng
	booking.AddressText = req.AddressText

	if req.Status != nil {
		status, err := models.ParseBookingStatus(*req.Status)
		if err != nil {
			return httpError(fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		}
		booking.Status = status
	}

	if req.AssignedEmployeeID != nil {
		if *req.AssignedEmployeeID == "" {
			booking.AssignedEmployeeID = nil
		} else {
			employeeID, err := common.ValidateUUID(*req.AssignedEmployeeID, "assigned_employee_id")
			if err != nil {
				return httpError(err)
			}
			employee, err := h.userRepo.GetByID(ctx, employeeID)
			if err != nil {
				return httpError(err)
			}
			if employee == nil {
				return echo.NewHTTPError(http.StatusNotFound, "employee not found")
			}
			if !employee.Role.IsStaff() {
				return httpError(fmt.Errorf("%w: user %s has role %s", common.ErrInvalidAssignment, employee.ID, employee.Role))
			}
			booking.AssignedEmployeeID = &employeeID
		}
	}

	if err := h.bookingRepo.Update(ctx, booking); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking and its review.
func (h *AdminHandlers) DeleteBooking(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	booking, err := h.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}

	if err := h.bookingRepo.DeleteCascade(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// StatsResponse represents the platform stats payload.
type StatsResponse struct {
	TotalBookings    int                          `json:"total_bookings"`
	BookingsByStatus map[models.BookingStatus]int `json:"bookings_by_status"`
	UsersByRole      map[models.Role]int          `json:"users_by_role"`
	TotalServices    int                          `json:"total_services"`
	TotalReviews     int                          `json:"total_reviews"`
}

// Stats returns platform-wide counters.
func (h *AdminHandlers) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	totalBookings, err := h.bookingRepo.Count(ctx)
	if err != nil {
		return httpError(err)
	}
	byStatus, err := h.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return httpError(err)
	}
	byRole, err := h.userRepo.CountByRole(ctx)
	if err != nil {
		return httpError(err)
	}
	totalServices, err := h.serviceRepo.Count(ctx)
	if err != nil {
		return httpError(err)
	}
	totalReviews, err := h.reviewRepo.Count(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &StatsResponse{
		TotalBookings:    totalBookings,
		BookingsByStatus: byStatus,
		UsersByRole:      byRole,
		TotalServices:    totalServices,
		TotalReviews:     totalReviews,
	})
}

// ExportBookings streams an XLSX workbook of all bookings.
func (h *AdminHandlers) ExportBookings(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	buffer, err := h.reportService.ExportBookingsXLSX(ctx, identity)
	if err != nil {
		return httpError(err)
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}
