package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.IsActive)
	return translateError(err, "could not insert user")
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, first_name, last_name, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "could not load user")
	}
	return user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, first_name, last_name, is_active, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	err := r.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "could not load user")
	}
	return user, nil
}

func (r *userRepo) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, passwordHash, id)
	return expectAffected(tag, err, "could not update password")
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, first_name, last_name, is_active, created_at, updated_at
		FROM users
		ORDER BY username
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "could not list users")
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, translateError(err, "could not scan user")
		}
		users = append(users, user)
	}
	return users, translateError(rows.Err(), "could not list users")
}
