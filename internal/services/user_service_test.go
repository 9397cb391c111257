package services

import (
	"context"
	"testing"

	"renttracker/internal/models"
	"renttracker/internal/repositories"
	"renttracker/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_GrantsRoles(t *testing.T) {
	ctx := context.Background()
	users := &testhelpers.MockUserRepository{}
	permissions := &testhelpers.MockPermissionRepository{}
	role := &models.Role{ID: uuid.New(), Name: models.RolePropertyManagers}

	permissions.On("GetRoleByName", ctx, models.RolePropertyManagers).Return(role, nil).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" && u.IsActive && u.PasswordHash != "" && u.PasswordHash != "s3cret-password"
	})).Return(nil).Once()
	permissions.On("AssignRole", ctx, mock.AnythingOfType("uuid.UUID"), role.ID).Return(nil).Once()

	user, err := NewUserService(users, permissions).CreateUser(ctx, &CreateUserInput{
		Username: " alice ",
		Password: "s3cret-password",
		Roles:    []string{models.RolePropertyManagers},
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	users.AssertExpectations(t)
	permissions.AssertExpectations(t)
}

func TestCreateUser_UnknownRoleCreatesNothing(t *testing.T) {
	ctx := context.Background()
	users := &testhelpers.MockUserRepository{}
	permissions := &testhelpers.MockPermissionRepository{}
	permissions.On("GetRoleByName", ctx, "wizards").Return(nil, repositories.ErrNotFound).Once()

	_, err := NewUserService(users, permissions).CreateUser(ctx, &CreateUserInput{
		Username: "alice", Password: "s3cret-password", Roles: []string{"wizards"},
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields["roles"], "wizards")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := &testhelpers.MockUserRepository{}
	permissions := &testhelpers.MockPermissionRepository{}
	users.On("Create", ctx, mock.Anything).
		Return(&repositories.ConstraintError{Code: repositories.CodeUniqueViolation, Constraint: "users_username_key"}).Once()

	_, err := NewUserService(users, permissions).CreateUser(ctx, &CreateUserInput{Username: "alice", Password: "s3cret-password"})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	_, err := NewUserService(&testhelpers.MockUserRepository{}, &testhelpers.MockPermissionRepository{}).
		CreateUser(context.Background(), &CreateUserInput{Username: "alice", Password: "short"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Ensure this value has at least 8 characters.", ve.Fields["password"])
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	users := &testhelpers.MockUserRepository{}
	user := &models.User{ID: uuid.New(), Username: "alice"}

	users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
	users.On("SetPassword", ctx, user.ID, mock.MatchedBy(func(hash string) bool {
		return hash != "" && hash != "another-password"
	})).Return(nil).Once()

	err := NewUserService(users, &testhelpers.MockPermissionRepository{}).ChangePassword(ctx, "alice", "another-password")

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestChangePassword_UnknownUser(t *testing.T) {
	ctx := context.Background()
	users := &testhelpers.MockUserRepository{}
	users.On("GetByUsername", ctx, "nobody").Return(nil, repositories.ErrNotFound).Once()

	err := NewUserService(users, &testhelpers.MockPermissionRepository{}).ChangePassword(ctx, "nobody", "another-password")

	assert.ErrorIs(t, err, ErrNotFound)
	users.AssertNotCalled(t, "SetPassword", mock.Anything, mock.Anything, mock.Anything)
}
