package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rings-s/anha/internal/caching"
	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
)

const (
	catalogCacheTTL = 10 * time.Minute
	imageURLExpiry  = 1 * time.Hour
)

// CatalogServiceInterface manages the admin-owned service catalog,
// including the optional image stored in object storage.
type CatalogServiceInterface interface {
	List(ctx context.Context) ([]*models.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, serviceID uuid.UUID, reader io.Reader, size int64, contentType string) error
	ImageURL(ctx context.Context, serviceID uuid.UUID) (string, error)
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
	minioSvc    MinioService
	cacheSvc    caching.CacheService
	bucket      string
}

func NewCatalogService(serviceRepo repositories.ServiceRepository, minioSvc MinioService, cacheSvc caching.CacheService, bucket string) CatalogServiceInterface {
	return &catalogService{
		serviceRepo: serviceRepo,
		minioSvc:    minioSvc,
		cacheSvc:    cacheSvc,
		bucket:      bucket,
	}
}

// List serves the catalog from cache when possible. Cache misses and
// cache failures both fall through to the database.
func (s *catalogService) List(ctx context.Context) ([]*models.Service, error) {
	cached, err := s.cacheSvc.GetServices(ctx)
	if err != nil {
		slog.Warn("catalog cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if err := s.cacheSvc.SetServices(ctx, services, catalogCacheTTL); err != nil {
		slog.Warn("catalog cache write failed", "error", err)
	}
	return services, nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up service: %w", err)
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service", common.ErrNotFound)
	}
	return service, nil
}

func (s *catalogService) Create(ctx context.Context, service *models.Service) error {
	if err := common.ValidateRequiredString(service.NameAr, "name_ar"); err != nil {
		return err
	}
	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", common.ErrInvalidInput)
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) Update(ctx context.Context, service *models.Service) error {
	if err := common.ValidateRequiredString(service.NameAr, "name_ar"); err != nil {
		return err
	}
	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", common.ErrInvalidInput)
	}
	existing, err := s.serviceRepo.GetByID(ctx, service.ID)
	if err != nil {
		return fmt.Errorf("look up service: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: service", common.ErrNotFound)
	}
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("look up service: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: service", common.ErrNotFound)
	}
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if existing.ImageObject != nil {
		if err := s.minioSvc.DeleteImage(ctx, s.bucket, *existing.ImageObject); err != nil {
			slog.Warn("failed to delete service image", "service_id", id, "error", err)
		}
	}
	s.invalidate(ctx)
	return nil
}

// UploadImage stores the image under a fresh object name and records it
// on the service row.
func (s *catalogService) UploadImage(ctx context.Context, serviceID uuid.UUID, reader io.Reader, size int64, contentType string) error {
	service, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}

	objectName := fmt.Sprintf("services/%s/%s", serviceID, uuid.NewString())
	if err := s.minioSvc.UploadImage(ctx, s.bucket, objectName, reader, size, contentType); err != nil {
		return fmt.Errorf("upload service image: %w", err)
	}
	if err := s.serviceRepo.UpdateImageObject(ctx, serviceID, objectName); err != nil {
		return fmt.Errorf("record service image: %w", err)
	}

	if service.ImageObject != nil {
		if err := s.minioSvc.DeleteImage(ctx, s.bucket, *service.ImageObject); err != nil {
			slog.Warn("failed to delete previous service image", "service_id", serviceID, "error", err)
		}
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ImageURL(ctx context.Context, serviceID uuid.UUID) (string, error) {
	service, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return "", err
	}
	if service.ImageObject == nil {
		return "", fmt.Errorf("%w: service image", common.ErrNotFound)
	}
	url, err := s.minioSvc.GetPresignedURL(ctx, s.bucket, *service.ImageObject, imageURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign service image: %w", err)
	}
	return url, nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cacheSvc.InvalidateServices(ctx); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
}
