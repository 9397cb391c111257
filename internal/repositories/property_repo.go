package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Property, error)
	CountTenants(ctx context.Context, id uuid.UUID) (int, error)
	CountPayments(ctx context.Context, id uuid.UUID) (int, error)
}

type propertyRepo struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertySelect = `
		SELECT p.id, p.llc_id, l.name, p.street_number, p.street_name, p.date_purchased, p.size, p.status,
			p.rent_amount, p.home_payment, p.lot_payment, p.make, p.year, p.vin, p.security_deposit,
			p.bedrooms, p.bathrooms, p.power_provider, p.water_provider, p.created_at, p.updated_at
		FROM properties p
		JOIN llcs l ON l.id = p.llc_id
`

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID, &p.LLCID, &p.LLCName, &p.StreetNumber, &p.StreetName, &p.DatePurchased, &p.Size, &p.Status,
		&p.RentAmount, &p.HomePayment, &p.LotPayment, &p.Make, &p.Year, &p.VIN, &p.SecurityDeposit,
		&p.Bedrooms, &p.Bathrooms, &p.PowerProvider, &p.WaterProvider, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (id, llc_id, street_number, street_name, date_purchased, size, status,
			rent_amount, home_payment, lot_payment, make, year, vin, security_deposit,
			bedrooms, bathrooms, power_provider, water_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.LLCID, p.StreetNumber, p.StreetName, p.DatePurchased, p.Size, p.Status,
		p.RentAmount, p.HomePayment, p.LotPayment, p.Make, p.Year, p.VIN, p.SecurityDeposit,
		p.Bedrooms, p.Bathrooms, p.PowerProvider, p.WaterProvider,
	)
	return translateError(err, "could not insert property")
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx, propertySelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "could not load property")
	}
	return p, nil
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties
		SET llc_id = $1, street_number = $2, street_name = $3, date_purchased = $4, size = $5, status = $6,
			rent_amount = $7, home_payment = $8, lot_payment = $9, make = $10, year = $11, vin = $12,
			security_deposit = $13, bedrooms = $14, bathrooms = $15, power_provider = $16,
			water_provider = $17, updated_at = NOW()
		WHERE id = $18
	`
	tag, err := r.db.Exec(ctx, query,
		p.LLCID, p.StreetNumber, p.StreetName, p.DatePurchased, p.Size, p.Status,
		p.RentAmount, p.HomePayment, p.LotPayment, p.Make, p.Year, p.VIN,
		p.SecurityDeposit, p.Bedrooms, p.Bathrooms, p.PowerProvider,
		p.WaterProvider, p.ID,
	)
	return expectAffected(tag, err, "could not update property")
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM properties WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected(tag, err, "could not delete property")
}

func (r *propertyRepo) List(ctx context.Context) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, propertySelect+` ORDER BY l.name, p.street_number, p.street_name`)
	if err != nil {
		return nil, translateError(err, "could not list properties")
	}
	defer rows.Close()

	properties := []*models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, translateError(err, "could not scan property")
		}
		properties = append(properties, p)
	}
	return properties, translateError(rows.Err(), "could not list properties")
}

func (r *propertyRepo) CountTenants(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tenants WHERE property_id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, translateError(err, "could not count tenants")
	}
	return count, nil
}

func (r *propertyRepo) CountPayments(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payments WHERE property_id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, translateError(err, "could not count payments")
	}
	return count, nil
}
