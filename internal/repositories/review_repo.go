package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rings-s/anha/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	Count(ctx context.Context) (int, error)
}

type reviewRepo struct {
	db Database
}

func NewReviewRepo(db Database) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.BookingID, review.Rating, review.Comment)
	return err
}

func (r *reviewRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	review := &models.Review{}
	query := `
		SELECT id, booking_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1
	`
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&review.ID, &review.BookingID, &review.Rating, &review.Comment, &review.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n)
	return n, err
}
