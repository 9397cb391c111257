package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Payment, error)
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentSelect = `
		SELECT pay.id, pay.tenant_id, pay.property_id, pay.payment_date, pay.amount, pay.notes,
			t.first_name || ' ' || t.last_name, p.street_number, p.street_name, pay.created_at, pay.updated_at
		FROM payments pay
		JOIN tenants t ON t.id = pay.tenant_id
		JOIN properties p ON p.id = pay.property_id
`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID, &p.TenantID, &p.PropertyID, &p.PaymentDate, &p.Amount, &p.Notes,
		&p.TenantName, &p.StreetNumber, &p.StreetName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (id, tenant_id, property_id, payment_date, amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.TenantID, p.PropertyID, p.PaymentDate, p.Amount, p.Notes)
	return translateError(err, "could not insert payment")
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, paymentSelect+` WHERE pay.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "could not load payment")
	}
	return p, nil
}

func (r *paymentRepo) Update(ctx context.Context, p *models.Payment) error {
	query := `
		UPDATE payments
		SET tenant_id = $1, property_id = $2, payment_date = $3, amount = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, p.TenantID, p.PropertyID, p.PaymentDate, p.Amount, p.Notes, p.ID)
	return expectAffected(tag, err, "could not update payment")
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected(tag, err, "could not delete payment")
}

// List returns payments newest first, ties broken by tenant name.
func (r *paymentRepo) List(ctx context.Context) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, paymentSelect+` ORDER BY pay.payment_date DESC, t.last_name, t.first_name`)
	if err != nil {
		return nil, translateError(err, "could not list payments")
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, translateError(err, "could not scan payment")
		}
		payments = append(payments, p)
	}
	return payments, translateError(rows.Err(), "could not list payments")
}
