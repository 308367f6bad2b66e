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

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := &models.User{
		ID:           suite.userID,
		Email:        "client@example.com",
		FullName:     "Test Client",
		Phone:        "0500000000",
		Role:         models.RoleClient,
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
	}

	suite.mock.ExpectExec(`
			INSERT INTO users \(id, email, full_name, phone, role, password_hash, is_active, created_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)
		`).WithArgs(user.ID, user.Email, user.FullName, user.Phone, user.Role, user.PasswordHash, user.IsActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestGetByEmail_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`
			SELECT id, email, full_name, phone, role, password_hash, is_active, created_at
			FROM users
			WHERE email = \$1
		`).WithArgs("client@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "password_hash", "is_active", "created_at"}).
			AddRow(suite.userID, "client@example.com", "Test Client", "0500000000", models.RoleClient, "$2a$10$hash", true, now))

	user, err := suite.repo.GetByEmail(suite.context, "client@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, user.ID)
	assert.Equal(suite.T(), models.RoleClient, user.Role)
}

func (suite *UserRepoTestSuite) TestGetByEmail_NotFoundIsNil() {
	suite.mock.ExpectQuery(`
			SELECT id, email, full_name, phone, role, password_hash, is_active, created_at
			FROM users
			WHERE email = \$1
		`).WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "password_hash", "is_active", "created_at"}))

	user, err := suite.repo.GetByEmail(suite.context, "ghost@example.com")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), user)
}

func (suite *UserRepoTestSuite) TestGetByID_NotFoundIsNil() {
	suite.mock.ExpectQuery(`
			SELECT id, email, full_name, phone, role, password_hash, is_active, created_at
			FROM users
			WHERE id = \$1
		`).WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "password_hash", "is_active", "created_at"}))

	user, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), user)
}

func (suite *UserRepoTestSuite) TestUpdatePassword_Success() {
	suite.mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs("$2a$10$newhash", suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePassword(suite.context, suite.userID, "$2a$10$newhash")
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestDeleteCascade_RemovesDependentsInOrder() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM reviews WHERE booking_id IN \(SELECT id FROM bookings WHERE client_id = \$1\)`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM bookings WHERE client_id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	suite.mock.ExpectExec(`UPDATE bookings SET assigned_employee_id = NULL WHERE assigned_employee_id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`DELETE FROM password_reset_tokens WHERE user_id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.DeleteCascade(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestDeleteCascade_RollbackOnFailure() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM reviews WHERE booking_id IN \(SELECT id FROM bookings WHERE client_id = \$1\)`).
		WithArgs(suite.userID).
		WillReturnError(errors.New("database connection failed"))
	suite.mock.ExpectRollback()

	err := suite.repo.DeleteCascade(suite.context, suite.userID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *UserRepoTestSuite) TestListByRoles_FiltersOnRoleNames() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "password_hash", "is_active", "created_at"}).
		AddRow(uuid.New(), "e@example.com", "Employee", "", models.RoleEmployee, "", true, now).
		AddRow(uuid.New(), "d@example.com", "Driver", "", models.RoleDriver, "", true, now)

	suite.mock.ExpectQuery(`
			SELECT id, email, full_name, phone, role, password_hash, is_active, created_at
			FROM users
			WHERE role = ANY\(\$1\)
			ORDER BY full_name
		`).WithArgs([]string{"employee", "driver"}).
		WillReturnRows(rows)

	users, err := suite.repo.ListByRoles(suite.context, []models.Role{models.RoleEmployee, models.RoleDriver})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
	assert.Equal(suite.T(), models.RoleEmployee, users[0].Role)
}

func (suite *UserRepoTestSuite) TestCountByRole() {
	rows := pgxmock.NewRows([]string{"role", "count"}).
		AddRow(models.RoleClient, 12).
		AddRow(models.RoleAdmin, 1)

	suite.mock.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users GROUP BY role`).
		WillReturnRows(rows)

	counts, err := suite.repo.CountByRole(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, counts[models.RoleClient])
	assert.Equal(suite.T(), 1, counts[models.RoleAdmin])
}
