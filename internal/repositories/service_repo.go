package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rings-s/anha/internal/models"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	UpdateImageObject(ctx context.Context, id uuid.UUID, objectName string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Service, error)
	Count(ctx context.Context) (int, error)
}

type serviceRepo struct {
	db Database
}

func NewServiceRepo(db Database) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, name_ar, name_en, description, price, image_object)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, service.ID, service.NameAr, service.NameEn, service.Description, service.Price, service.ImageObject)
	return err
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service := &models.Service{}
	query := `
		SELECT id, name_ar, name_en, description, price, image_object
		FROM services
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&service.ID, &service.NameAr, &service.NameEn, &service.Description, &service.Price, &service.ImageObject,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (r *serviceRepo) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET name_ar = $1, name_en = $2, description = $3, price = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, service.NameAr, service.NameEn, service.Description, service.Price, service.ID)
	return err
}

func (r *serviceRepo) UpdateImageObject(ctx context.Context, id uuid.UUID, objectName string) error {
	query := `UPDATE services SET image_object = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, objectName, id)
	return err
}

func (r *serviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM services WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *serviceRepo) List(ctx context.Context) ([]*models.Service, error) {
	query := `
		SELECT id, name_ar, name_en, description, price, image_object
		FROM services
		ORDER BY name_ar
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service := &models.Service{}
		if err := rows.Scan(
			&service.ID, &service.NameAr, &service.NameEn, &service.Description, &service.Price, &service.ImageObject,
		); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (r *serviceRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&n)
	return n, err
}
