package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type UserService interface {
	CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error)
	ChangePassword(ctx context.Context, username, password string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
}

type CreateUserInput struct {
	Username  string   `json:"username" validate:"required,max=150"`
	Password  string   `json:"password" validate:"required,min=8"`
	FirstName string   `json:"first_name" validate:"max=150"`
	LastName  string   `json:"last_name" validate:"max=150"`
	Roles     []string `json:"roles"`
}

type userService struct {
	users       repositories.UserRepository
	permissions repositories.PermissionRepository
}

func NewUserService(users repositories.UserRepository, permissions repositories.PermissionRepository) UserService {
	return &userService{users: users, permissions: permissions}
}

// CreateUser adds an active user and grants the named roles. Roles are
// resolved first so an unknown name leaves nothing behind.
func (s *userService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if ve := validateStruct(input); ve.HasErrors() {
		return nil, ve
	}

	roles := make([]*models.Role, 0, len(input.Roles))
	for _, name := range input.Roles {
		role, err := s.permissions.GetRoleByName(ctx, strings.TrimSpace(name))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				ve := NewValidationError()
				ve.Add("roles", fmt.Sprintf("Unknown role %q.", name))
				return nil, ve
			}
			return nil, err
		}
		roles = append(roles, role)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateWriteError(err)
	}

	for _, role := range roles {
		if err := s.permissions.AssignRole(ctx, user.ID, role.ID); err != nil {
			return nil, errors.Wrapf(err, "failed to grant role %s", role.Name)
		}
	}

	slog.Info("user created", "username", user.Username, "roles", len(roles))
	return user, nil
}

// ChangePassword replaces the password of an existing user.
func (s *userService) ChangePassword(ctx context.Context, username, password string) error {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return notFound(err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return notFound(err)
	}
	slog.Info("password changed", "username", user.Username)
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

func (s *userService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.permissions.ListRoles(ctx)
}
