package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rings-s/anha/internal/models"
)

var serviceRowColumns = []string{"id", "name_ar", "name_en", "description", "price", "image_object"}

type ServiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ServiceRepository
	context context.Context
}

func (suite *ServiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewServiceRepo(mock)
	suite.context = context.Background()
}

func (suite *ServiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestServiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceRepoTestSuite))
}

func (suite *ServiceRepoTestSuite) TestCreate_Success() {
	service := &models.Service{
		ID:     uuid.New(),
		NameAr: "تنظيف المنازل",
		Price:  150,
	}

	suite.mock.ExpectExec(`INSERT INTO services \(id, name_ar, name_en, description, price, image_object\)`).
		WithArgs(service.ID, service.NameAr, service.NameEn, service.Description, service.Price, service.ImageObject).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, service)
	assert.NoError(suite.T(), err)
}

func (suite *ServiceRepoTestSuite) TestGetByID_Success() {
	id := uuid.New()
	rows := pgxmock.NewRows(serviceRowColumns).
		AddRow(id, "تنظيف المنازل", (*string)(nil), (*string)(nil), 150.0, (*string)(nil))

	suite.mock.ExpectQuery(`SELECT id, name_ar, name_en, description, price, image_object\s+FROM services\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	service, err := suite.repo.GetByID(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), service)
	assert.Equal(suite.T(), "تنظيف المنازل", service.NameAr)
	assert.Equal(suite.T(), 150.0, service.Price)
}

func (suite *ServiceRepoTestSuite) TestGetByID_NotFoundIsNil() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT id, name_ar, name_en, description, price, image_object\s+FROM services\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(serviceRowColumns))

	service, err := suite.repo.GetByID(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), service)
}

func (suite *ServiceRepoTestSuite) TestUpdate_Success() {
	service := &models.Service{
		ID:     uuid.New(),
		NameAr: "صيانة مكيفات",
		Price:  200,
	}

	suite.mock.ExpectExec(`UPDATE services\s+SET name_ar = \$1, name_en = \$2, description = \$3, price = \$4\s+WHERE id = \$5`).
		WithArgs(service.NameAr, service.NameEn, service.Description, service.Price, service.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, service)
	assert.NoError(suite.T(), err)
}

func (suite *ServiceRepoTestSuite) TestUpdateImageObject() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE services SET image_object = \$1 WHERE id = \$2`).
		WithArgs("services/abc/def", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateImageObject(suite.context, id, "services/abc/def")
	assert.NoError(suite.T(), err)
}

func (suite *ServiceRepoTestSuite) TestDelete() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM services WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *ServiceRepoTestSuite) TestList_OrderedByArabicName() {
	rows := pgxmock.NewRows(serviceRowColumns).
		AddRow(uuid.New(), "تنظيف", (*string)(nil), (*string)(nil), 100.0, (*string)(nil)).
		AddRow(uuid.New(), "صيانة", (*string)(nil), (*string)(nil), 200.0, (*string)(nil))

	suite.mock.ExpectQuery(`SELECT id, name_ar, name_en, description, price, image_object\s+FROM services\s+ORDER BY name_ar`).
		WillReturnRows(rows)

	services, err := suite.repo.List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), services, 2)
	assert.Equal(suite.T(), "تنظيف", services[0].NameAr)
}

func (suite *ServiceRepoTestSuite) TestList_QueryError() {
	suite.mock.ExpectQuery(`SELECT id, name_ar, name_en, description, price, image_object`).
		WillReturnError(errors.New("connection reset"))

	services, err := suite.repo.List(suite.context)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), services)
}

func (suite *ServiceRepoTestSuite) TestCount() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM services`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := suite.repo.Count(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, n)
}
