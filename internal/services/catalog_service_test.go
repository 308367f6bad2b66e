package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetServices(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCacheService) SetServices(ctx context.Context, services []*models.Service, ttl time.Duration) error {
	args := m.Called(ctx, services, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateServices(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type CatalogServiceTestSuite struct {
	suite.Suite
	serviceRepo *MockServiceRepository
	minioSvc    *MockMinioService
	cacheSvc    *MockCacheService
	catalog     CatalogServiceInterface
	ctx         context.Context
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.serviceRepo = new(MockServiceRepository)
	s.minioSvc = new(MockMinioService)
	s.cacheSvc = new(MockCacheService)
	s.catalog = NewCatalogService(s.serviceRepo, s.minioSvc, s.cacheSvc, "service-images")
	s.ctx = context.Background()
}

func (s *CatalogServiceTestSuite) TestList_CacheHitSkipsDatabase() {
	cached := []*models.Service{{ID: uuid.New(), NameAr: "تنظيف"}}
	s.cacheSvc.On("GetServices", s.ctx).Return(cached, nil)

	services, err := s.catalog.List(s.ctx)

	s.NoError(err)
	s.Equal(cached, services)
	s.serviceRepo.AssertNotCalled(s.T(), "List", mock.Anything)
}

func (s *CatalogServiceTestSuite) TestList_CacheMissReadsAndPopulates() {
	fromDB := []*models.Service{{ID: uuid.New(), NameAr: "صيانة"}}
	s.cacheSvc.On("GetServices", s.ctx).Return(nil, nil)
	s.serviceRepo.On("List", s.ctx).Return(fromDB, nil)
	s.cacheSvc.On("SetServices", s.ctx, fromDB, catalogCacheTTL).Return(nil)

	services, err := s.catalog.List(s.ctx)

	s.NoError(err)
	s.Equal(fromDB, services)
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestList_CacheFailureFallsThrough() {
	fromDB := []*models.Service{{ID: uuid.New(), NameAr: "نقل"}}
	s.cacheSvc.On("GetServices", s.ctx).Return(nil, errors.New("redis down"))
	s.serviceRepo.On("List", s.ctx).Return(fromDB, nil)
	s.cacheSvc.On("SetServices", s.ctx, fromDB, catalogCacheTTL).Return(errors.New("redis down"))

	services, err := s.catalog.List(s.ctx)

	s.NoError(err)
	s.Equal(fromDB, services)
}

func (s *CatalogServiceTestSuite) TestCreate_RejectsNegativePrice() {
	err := s.catalog.Create(s.ctx, &models.Service{NameAr: "خدمة", Price: -1})

	s.ErrorIs(err, common.ErrInvalidInput)
	s.serviceRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *CatalogServiceTestSuite) TestCreate_InvalidatesCache() {
	service := &models.Service{NameAr: "خدمة جديدة", Price: 100}
	s.serviceRepo.On("Create", s.ctx, service).Return(nil)
	s.cacheSvc.On("InvalidateServices", s.ctx).Return(nil)

	err := s.catalog.Create(s.ctx, service)

	s.NoError(err)
	s.NotEqual(uuid.Nil, service.ID)
	s.cacheSvc.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestUpdate_NotFound() {
	service := &models.Service{ID: uuid.New(), NameAr: "خدمة", Price: 50}
	s.serviceRepo.On("GetByID", s.ctx, service.ID).Return(nil, nil)

	err := s.catalog.Update(s.ctx, service)

	s.ErrorIs(err, common.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestDelete_RemovesStoredImage() {
	id := uuid.New()
	object := "services/" + id.String() + "/img"
	s.serviceRepo.On("GetByID", s.ctx, id).Return(&models.Service{ID: id, NameAr: "خدمة", ImageObject: &object}, nil)
	s.serviceRepo.On("Delete", s.ctx, id).Return(nil)
	s.minioSvc.On("DeleteImage", s.ctx, "service-images", object).Return(nil)
	s.cacheSvc.On("InvalidateServices", s.ctx).Return(nil)

	err := s.catalog.Delete(s.ctx, id)

	s.NoError(err)
	s.minioSvc.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestUploadImage_ReplacesPreviousObject() {
	id := uuid.New()
	previous := "services/" + id.String() + "/old"
	reader := strings.NewReader("fake image bytes")

	s.serviceRepo.On("GetByID", s.ctx, id).Return(&models.Service{ID: id, NameAr: "خدمة", ImageObject: &previous}, nil)
	s.minioSvc.On("UploadImage", s.ctx, "service-images", mock.AnythingOfType("string"), reader, int64(16), "image/png").Return(nil)
	s.serviceRepo.On("UpdateImageObject", s.ctx, id, mock.AnythingOfType("string")).Return(nil)
	s.minioSvc.On("DeleteImage", s.ctx, "service-images", previous).Return(nil)
	s.cacheSvc.On("InvalidateServices", s.ctx).Return(nil)

	err := s.catalog.UploadImage(s.ctx, id, reader, 16, "image/png")

	s.NoError(err)
	s.minioSvc.AssertExpectations(s.T())
	s.serviceRepo.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestImageURL_NoImageIsNotFound() {
	id := uuid.New()
	s.serviceRepo.On("GetByID", s.ctx, id).Return(&models.Service{ID: id, NameAr: "خدمة"}, nil)

	_, err := s.catalog.ImageURL(s.ctx, id)

	s.ErrorIs(err, common.ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestImageURL_Presigns() {
	id := uuid.New()
	object := "services/" + id.String() + "/img"
	s.serviceRepo.On("GetByID", s.ctx, id).Return(&models.Service{ID: id, NameAr: "خدمة", ImageObject: &object}, nil)
	s.minioSvc.On("GetPresignedURL", s.ctx, "service-images", object, imageURLExpiry).Return("https://minio.local/presigned", nil)

	url, err := s.catalog.ImageURL(s.ctx, id)

	s.NoError(err)
	s.Equal("https://minio.local/presigned", url)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
