package repositories

import (
	"context"

	"renttracker/internal/models"

	"github.com/google/uuid"
)

type LLCRepository interface {
	Create(ctx context.Context, llc *models.LLC) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LLC, error)
	Update(ctx context.Context, llc *models.LLC) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.LLC, error)
	CountProperties(ctx context.Context, id uuid.UUID) (int, error)
}

type llcRepo struct {
	db DBTX
}

func NewLLCRepository(db DBTX) LLCRepository {
	return &llcRepo{db: db}
}

func (r *llcRepo) Create(ctx context.Context, llc *models.LLC) error {
	query := `
		INSERT INTO llcs (id, name, creation_date, last_filing_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, llc.ID, llc.Name, llc.CreationDate, llc.LastFilingDate)
	return translateError(err, "could not insert llc")
}

func (r *llcRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LLC, error) {
	llc := &models.LLC{}
	query := `
		SELECT id, name, creation_date, last_filing_date, created_at, updated_at
		FROM llcs
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&llc.ID, &llc.Name, &llc.CreationDate, &llc.LastFilingDate, &llc.CreatedAt, &llc.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "could not load llc")
	}
	return llc, nil
}

func (r *llcRepo) Update(ctx context.Context, llc *models.LLC) error {
	query := `
		UPDATE llcs
		SET name = $1, creation_date = $2, last_filing_date = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, llc.Name, llc.CreationDate, llc.LastFilingDate, llc.ID)
	return expectAffected(tag, err, "could not update llc")
}

func (r *llcRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM llcs WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected(tag, err, "could not delete llc")
}

func (r *llcRepo) List(ctx context.Context) ([]*models.LLC, error) {
	query := `
		SELECT id, name, creation_date, last_filing_date, created_at, updated_at
		FROM llcs
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "could not list llcs")
	}
	defer rows.Close()

	llcs := []*models.LLC{}
	for rows.Next() {
		llc := &models.LLC{}
		if err := rows.Scan(&llc.ID, &llc.Name, &llc.CreationDate, &llc.LastFilingDate, &llc.CreatedAt, &llc.UpdatedAt); err != nil {
			return nil, translateError(err, "could not scan llc")
		}
		llcs = append(llcs, llc)
	}
	return llcs, translateError(rows.Err(), "could not list llcs")
}

func (r *llcRepo) CountProperties(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM properties WHERE llc_id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, translateError(err, "could not count properties")
	}
	return count, nil
}
