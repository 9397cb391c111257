package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
)

// PermissionRepository resolves what a user may do through role membership.
type PermissionRepository interface {
	ListCodenamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
}

type permissionRepo struct {
	db DBTX
}

func NewPermissionRepo(db DBTX) PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) ListCodenamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT p.codename
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY p.codename
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err, "could not list permissions")
	}
	defer rows.Close()

	codenames := []string{}
	for rows.Next() {
		var codename string
		if err := rows.Scan(&codename); err != nil {
			return nil, translateError(err, "could not scan permission")
		}
		codenames = append(codenames, codename)
	}
	return codenames, translateError(rows.Err(), "could not list permissions")
}

func (r *permissionRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, name, description, created_at
		FROM roles
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		return nil, translateError(err, "could not load role")
	}
	return role, nil
}

func (r *permissionRepo) ListRoles(ctx context.Context) ([]*models.Role, error) {
	query := `
		SELECT id, name, description, created_at
		FROM roles
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "could not list roles")
	}
	defer rows.Close()

	roles := []*models.Role{}
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, translateError(err, "could not scan role")
		}
		roles = append(roles, role)
	}
	return roles, translateError(rows.Err(), "could not list roles")
}

func (r *permissionRepo) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, roleID)
	return translateError(err, "could not assign role")
}
