package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/metrics"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
)

// CreateBookingInput carries the validated form values for a new booking.
type CreateBookingInput struct {
	ServiceID    uuid.UUID
	ClientID     *uuid.UUID // admins may book on behalf of another user
	ContactName  string
	ContactPhone string
	Description  string
	LocationLat  *float64
	LocationLng  *float64
	AddressText  string
}

// BookingServiceInterface owns the booking lifecycle: creation with price
// snapshot, role-guarded status transitions, staff assignment, and the
// review gate on completed bookings.
type BookingServiceInterface interface {
	Create(ctx context.Context, actor *models.Identity, input *CreateBookingInput) (*models.Booking, error)
	GetByID(ctx context.Context, actor *models.Identity, bookingID uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, actor *models.Identity, status *models.BookingStatus, limit, offset int) ([]*models.Booking, error)
	Transition(ctx context.Context, actor *models.Identity, bookingID uuid.UUID, newStatus models.BookingStatus) (*models.Booking, error)
	Assign(ctx context.Context, actor *models.Identity, bookingID, employeeID uuid.UUID) (*models.Booking, error)
	SubmitReview(ctx context.Context, actor *models.Identity, bookingID uuid.UUID, rating int, comment string) (*models.Review, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	serviceRepo repositories.ServiceRepository
	reviewRepo  repositories.ReviewRepository
	userRepo    repositories.UserRepository
	metrics     *metrics.Metrics
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	serviceRepo repositories.ServiceRepository,
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	appMetrics *metrics.Metrics,
) BookingServiceInterface {
	return &bookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		metrics:     appMetrics,
	}
}

// Create opens a booking in state requested. The price is snapshotted
// from the service's current price and never recomputed afterwards.
func (s *bookingService) Create(ctx context.Context, actor *models.Identity, input *CreateBookingInput) (*models.Booking, error) {
	if !Allows(actor.Role, ActionCreateBooking) {
		return nil, common.ErrForbidden
	}
	if err := common.ValidateRequiredString(input.ContactName, "contact_name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(input.ContactPhone, "contact_phone"); err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("look up service: %w", err)
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service", common.ErrNotFound)
	}

	clientID := actor.ID
	if input.ClientID != nil && *input.ClientID != actor.ID {
		if actor.Role != models.RoleAdmin {
			return nil, common.ErrForbidden
		}
		client, err := s.userRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			return nil, fmt.Errorf("look up client: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("%w: client", common.ErrNotFound)
		}
		clientID = client.ID
	}

	booking := &models.Booking{
		ID:           uuid.New(),
		ClientID:     clientID,
		ServiceID:    service.ID,
		Status:       models.StatusRequested,
		Price:        service.Price,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		Description:  input.Description,
		LocationLat:  input.LocationLat,
		LocationLng:  input.LocationLng,
		AddressText:  input.AddressText,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.metrics.BookingsCreated.Inc()
	slog.Info("booking created", "booking_id", booking.ID, "client_id", clientID, "service_id", service.ID)
	return booking, nil
}

// GetByID returns a booking. Clients only see their own; staff and
// admins see everything.
func (s *bookingService) GetByID(ctx context.Context, actor *models.Identity, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("look up booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", common.ErrNotFound)
	}
	if !actor.Role.IsStaff() && booking.ClientID != actor.ID {
		return nil, common.ErrForbidden
	}
	return booking, nil
}

// List returns bookings newest first. Clients are scoped to their own.
func (s *bookingService) List(ctx context.Context, actor *models.Identity, status *models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	filter := &models.BookingFilter{Status: status, Limit: limit, Offset: offset}
	if !actor.Role.IsStaff() {
		clientID := actor.ID
		filter.ClientID = &clientID
	}
	return s.bookingRepo.List(ctx, filter)
}

// Transition moves a booking to a new status. Any staff member may set
// any status from any status; no adjacency constraints are enforced.
// Moving to assigned without an explicit assignee auto-assigns the actor.
func (s *bookingService) Transition(ctx context.Context, actor *models.Identity, bookingID uuid.UUID, newStatus models.BookingStatus) (*models.Booking, error) {
	if !Allows(actor.Role, ActionTransitionBooking) {
		return nil, common.ErrForbidden
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("look up booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", common.ErrNotFound)
	}

	booking.Status = newStatus
	if newStatus == models.StatusAssigned && booking.AssignedEmployeeID == nil {
		actorID := actor.ID
		booking.AssignedEmployeeID = &actorID
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.metrics.BookingTransitions.WithLabelValues(string(newStatus)).Inc()
	slog.Info("booking transitioned", "booking_id", booking.ID, "status", newStatus, "actor_id", actor.ID)
	return booking, nil
}

// Assign sets the employee fulfilling a booking. The target user must
// hold a staff role.
func (s *bookingService) Assign(ctx context.Context, actor *models.Identity, bookingID, employeeID uuid.UUID) (*models.Booking, error) {
	if !Allows(actor.Role, ActionAssignBooking) {
		return nil, common.ErrForbidden
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("look up booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", common.ErrNotFound)
	}

	employee, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("look up employee: %w", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee", common.ErrNotFound)
	}
	if !employee.Role.IsStaff() {
		return nil, fmt.Errorf("%w: user %s has role %s", common.ErrInvalidAssignment, employee.ID, employee.Role)
	}

	booking.AssignedEmployeeID = &employee.ID
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("assign booking: %w", err)
	}
	return booking, nil
}

// SubmitReview records the client's rating of a completed booking.
// Owner-only, completed-only, once per booking, rating in [1,5].
func (s *bookingService) SubmitReview(ctx context.Context, actor *models.Identity, bookingID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if !Allows(actor.Role, ActionReviewBooking) {
		return nil, common.ErrForbidden
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("look up booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", common.ErrNotFound)
	}
	if booking.ClientID != actor.ID {
		return nil, common.ErrForbidden
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", common.ErrInvalidInput)
	}
	if booking.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: booking is %s", common.ErrNotEligible, booking.Status)
	}

	existing, err := s.reviewRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("look up review: %w", err)
	}
	if existing != nil {
		return nil, common.ErrAlreadyReviewed
	}

	review := &models.Review{
		ID:        uuid.New(),
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.metrics.ReviewsSubmitted.Inc()
	return review, nil
}
