package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rings-s/anha/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error)
}

type bookingRepo struct {
	db Database
}

func NewBookingRepo(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `id, client_id, service_id, status, price, contact_name, contact_phone,
		description, location_lat, location_lng, address_text, assigned_employee_id, created_at`

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, client_id, service_id, status, price, contact_name, contact_phone,
			description, location_lat, location_lng, address_text, assigned_employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.ClientID, booking.ServiceID, booking.Status, booking.Price,
		booking.ContactName, booking.ContactPhone, booking.Description,
		booking.LocationLat, booking.LocationLng, booking.AddressText, booking.AssignedEmployeeID,
	)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID, &booking.ClientID, &booking.ServiceID, &booking.Status, &booking.Price,
		&booking.ContactName, &booking.ContactPhone, &booking.Description,
		&booking.LocationLat, &booking.LocationLng, &booking.AddressText,
		&booking.AssignedEmployeeID, &booking.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Update persists the mutable fields of a booking. Concurrent updates on
// the same row are last-write-wins; no version check is performed.
func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, contact_name = $2, contact_phone = $3, description = $4,
			location_lat = $5, location_lng = $6, address_text = $7, assigned_employee_id = $8
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query,
		booking.Status, booking.ContactName, booking.ContactPhone, booking.Description,
		booking.LocationLat, booking.LocationLng, booking.AddressText,
		booking.AssignedEmployeeID, booking.ID,
	)
	return err
}

// DeleteCascade removes a booking and its review, if any.
func (r *bookingRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE booking_id = $1`, id); err != nil {
		return fmt.Errorf("delete booking review: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *bookingRepo) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, *filter.ClientID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		if err := rows.Scan(
			&booking.ID, &booking.ClientID, &booking.ServiceID, &booking.Status, &booking.Price,
			&booking.ContactName, &booking.ContactPhone, &booking.Description,
			&booking.LocationLat, &booking.LocationLng, &booking.AddressText,
			&booking.AssignedEmployeeID, &booking.CreatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}

func (r *bookingRepo) CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.BookingStatus]int)
	for rows.Next() {
		var status models.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
