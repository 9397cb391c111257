package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PermissionRepoTestSuite struct {
	suite.Suite
	mock   pgxmock.PgxPoolIface
	repo   PermissionRepository
	userID uuid.UUID
}

func (suite *PermissionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewPermissionRepo(mock)
	suite.userID = uuid.New()
}

func (suite *PermissionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPermissionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionRepoTestSuite))
}

func (suite *PermissionRepoTestSuite) TestListCodenamesForUser() {
	suite.mock.ExpectQuery(`SELECT DISTINCT p.codename\s+FROM user_roles ur`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"codename"}).AddRow("view_llc").AddRow("view_property"))

	codenames, err := suite.repo.ListCodenamesForUser(context.Background(), suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"view_llc", "view_property"}, codenames)
}

func (suite *PermissionRepoTestSuite) TestGetRoleByName_NotFound() {
	suite.mock.ExpectQuery(`FROM roles\s+WHERE name = \$1`).
		WithArgs("auditors").
		WillReturnError(pgx.ErrNoRows)

	role, err := suite.repo.GetRoleByName(context.Background(), "auditors")
	assert.Nil(suite.T(), role)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PermissionRepoTestSuite) TestAssignRole_Idempotent() {
	roleID := uuid.New()
	suite.mock.ExpectExec(`(?s)INSERT INTO user_roles .* ON CONFLICT \(user_id, role_id\) DO NOTHING`).
		WithArgs(suite.userID, roleID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := suite.repo.AssignRole(context.Background(), suite.userID, roleID)
	assert.NoError(suite.T(), err)
}
