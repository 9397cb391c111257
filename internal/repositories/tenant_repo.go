package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Tenant, error)
	CountPayments(ctx context.Context, id uuid.UUID) (int, error)
	SetDocumentKey(ctx context.Context, id uuid.UUID, key *string) error
}

type tenantRepo struct {
	db DBTX
}

func NewTenantRepository(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantSelect = `
		SELECT t.id, t.first_name, t.last_name, t.phone_number, t.date_of_birth, t.identification_type,
			t.identification_number, t.is_approved, t.date_approved, t.move_in_date, t.property_id,
			p.street_number || ' ' || p.street_name, t.id_document_key, t.created_at, t.updated_at
		FROM tenants t
		LEFT JOIN properties p ON p.id = t.property_id
`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(
		&t.ID, &t.FirstName, &t.LastName, &t.PhoneNumber, &t.DateOfBirth, &t.IdentificationType,
		&t.IdentificationNumber, &t.IsApproved, &t.DateApproved, &t.MoveInDate, &t.PropertyID,
		&t.PropertyAddress, &t.IDDocumentKey, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, first_name, last_name, phone_number, date_of_birth, identification_type,
			identification_number, is_approved, date_approved, move_in_date, property_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.FirstName, t.LastName, t.PhoneNumber, t.DateOfBirth, t.IdentificationType,
		t.IdentificationNumber, t.IsApproved, t.DateApproved, t.MoveInDate, t.PropertyID,
	)
	return translateError(err, "could not insert tenant")
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := scanTenant(r.db.QueryRow(ctx, tenantSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "could not load tenant")
	}
	return t, nil
}

func (r *tenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	query := `
		UPDATE tenants
		SET first_name = $1, last_name = $2, phone_number = $3, date_of_birth = $4, identification_type = $5,
			identification_number = $6, is_approved = $7, date_approved = $8, move_in_date = $9,
			property_id = $10, updated_at = NOW()
		WHERE id = $11
	`
	tag, err := r.db.Exec(ctx, query,
		t.FirstName, t.LastName, t.PhoneNumber, t.DateOfBirth, t.IdentificationType,
		t.IdentificationNumber, t.IsApproved, t.DateApproved, t.MoveInDate,
		t.PropertyID, t.ID,
	)
	return expectAffected(tag, err, "could not update tenant")
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected(tag, err, "could not delete tenant")
}

func (r *tenantRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, tenantSelect+` ORDER BY t.last_name, t.first_name`)
	if err != nil {
		return nil, translateError(err, "could not list tenants")
	}
	defer rows.Close()

	tenants := []*models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, translateError(err, "could not scan tenant")
		}
		tenants = append(tenants, t)
	}
	return tenants, translateError(rows.Err(), "could not list tenants")
}

func (r *tenantRepo) CountPayments(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payments WHERE tenant_id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, translateError(err, "could not count payments")
	}
	return count, nil
}

func (r *tenantRepo) SetDocumentKey(ctx context.Context, id uuid.UUID, key *string) error {
	query := `UPDATE tenants SET id_document_key = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, key, id)
	return expectAffected(tag, err, "could not store document key")
}
