package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rings-s/anha/internal/models"
)

var bookingRowColumns = []string{
	"id", "client_id", "service_id", "status", "price", "contact_name", "contact_phone",
	"description", "location_lat", "location_lng", "address_text", "assigned_employee_id", "created_at",
}

type BookingRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      BookingRepository
	bookingID uuid.UUID
	clientID  uuid.UUID
	context   context.Context
}

func (suite *BookingRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBookingRepo(mock)
	suite.bookingID = uuid.New()
	suite.clientID = uuid.New()
	suite.context = context.Background()
}

func (suite *BookingRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBookingRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BookingRepoTestSuite))
}

func (suite *BookingRepoTestSuite) bookingRow(status models.BookingStatus) *pgxmock.Rows {
	return pgxmock.NewRows(bookingRowColumns).
		AddRow(suite.bookingID, suite.clientID, uuid.New(), status, 99.0, "Sara", "0555555555",
			"", (*float64)(nil), (*float64)(nil), "", (*uuid.UUID)(nil), time.Now())
}

func (suite *BookingRepoTestSuite) TestCreate_Success() {
	booking := &models.Booking{
		ID:           suite.bookingID,
		ClientID:     suite.clientID,
		ServiceID:    uuid.New(),
		Status:       models.StatusRequested,
		Price:        99.0,
		ContactName:  "Sara",
		ContactPhone: "0555555555",
	}

	suite.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(booking.ID, booking.ClientID, booking.ServiceID, booking.Status, booking.Price,
			booking.ContactName, booking.ContactPhone, booking.Description,
			booking.LocationLat, booking.LocationLng, booking.AddressText, booking.AssignedEmployeeID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, booking)
	assert.NoError(suite.T(), err)
}

func (suite *BookingRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnRows(suite.bookingRow(models.StatusRequested))

	booking, err := suite.repo.GetByID(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.bookingID, booking.ID)
	assert.Equal(suite.T(), models.StatusRequested, booking.Status)
}

func (suite *BookingRepoTestSuite) TestGetByID_NotFoundIsNil() {
	suite.mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns))

	booking, err := suite.repo.GetByID(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), booking)
}

func (suite *BookingRepoTestSuite) TestUpdate_Success() {
	assigned := uuid.New()
	booking := &models.Booking{
		ID:                 suite.bookingID,
		Status:             models.StatusAssigned,
		ContactName:        "Sara",
		ContactPhone:       "0555555555",
		AssignedEmployeeID: &assigned,
	}

	suite.mock.ExpectExec(`UPDATE bookings`).
		WithArgs(booking.Status, booking.ContactName, booking.ContactPhone, booking.Description,
			booking.LocationLat, booking.LocationLng, booking.AddressText,
			booking.AssignedEmployeeID, booking.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, booking)
	assert.NoError(suite.T(), err)
}

func (suite *BookingRepoTestSuite) TestDeleteCascade_RemovesReviewFirst() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM reviews WHERE booking_id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.DeleteCascade(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
}

func (suite *BookingRepoTestSuite) TestDeleteCascade_RollbackOnFailure() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM reviews WHERE booking_id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnError(errors.New("database connection failed"))
	suite.mock.ExpectRollback()

	err := suite.repo.DeleteCascade(suite.context, suite.bookingID)
	assert.Error(suite.T(), err)
}

func (suite *BookingRepoTestSuite) TestList_NoFilters() {
	suite.mock.ExpectQuery(`SELECT .+ FROM bookings WHERE 1=1 ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(suite.bookingRow(models.StatusRequested))

	bookings, err := suite.repo.List(suite.context, &models.BookingFilter{Limit: 50, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), bookings, 1)
}

func (suite *BookingRepoTestSuite) TestList_ClientAndStatusFilters() {
	status := models.StatusCompleted

	suite.mock.ExpectQuery(`SELECT .+ FROM bookings WHERE 1=1 AND client_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(suite.clientID, status, 20, 0).
		WillReturnRows(suite.bookingRow(models.StatusCompleted))

	bookings, err := suite.repo.List(suite.context, &models.BookingFilter{
		ClientID: &suite.clientID,
		Status:   &status,
		Limit:    20,
		Offset:   0,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), bookings, 1)
	assert.Equal(suite.T(), models.StatusCompleted, bookings[0].Status)
}

func (suite *BookingRepoTestSuite) TestCountByStatus() {
	rows := pgxmock.NewRows([]string{"status", "count"}).
		AddRow(models.StatusRequested, 4).
		AddRow(models.StatusCompleted, 9)

	suite.mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM bookings GROUP BY status`).
		WillReturnRows(rows)

	counts, err := suite.repo.CountByStatus(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, counts[models.StatusRequested])
	assert.Equal(suite.T(), 9, counts[models.StatusCompleted])
}
