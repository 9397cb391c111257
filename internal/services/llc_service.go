package services

import (
	"context"
	"time"

	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
)

type LLCService interface {
	List(ctx context.Context) ([]*models.LLC, error)
	Get(ctx context.Context, id uuid.UUID) (*models.LLC, error)
	Create(ctx context.Context, form *LLCForm) (*models.LLC, error)
	Update(ctx context.Context, id uuid.UUID, form *LLCForm) (*models.LLC, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.LLC, error)

	// FilingReport classifies every LLC against today.
	FilingReport(ctx context.Context, today time.Time) ([]FilingReportRow, error)
}

// FilingReportRow is one LLC with its filing status on a given day.
type FilingReportRow struct {
	LLC      *models.LLC         `json:"llc"`
	Status   models.FilingStatus `json:"status"`
	Deadline time.Time           `json:"deadline"`
}

type llcService struct {
	store repositories.Store
	audit AuditLogsService
}

func NewLLCService(store repositories.Store, audit AuditLogsService) LLCService {
	return &llcService{store: store, audit: audit}
}

func (s *llcService) List(ctx context.Context) ([]*models.LLC, error) {
	return s.store.LLCs().List(ctx)
}

func (s *llcService) Get(ctx context.Context, id uuid.UUID) (*models.LLC, error) {
	llc, err := s.store.LLCs().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return llc, nil
}

func (s *llcService) Create(ctx context.Context, form *LLCForm) (*models.LLC, error) {
	llc, err := form.Validate()
	if err != nil {
		return nil, err
	}
	llc.ID = uuid.New()

	var created *models.LLC
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.LLCs().Create(ctx, llc); err != nil {
			return translateWriteError(err)
		}
		var err error
		created, err = tx.LLCs().GetByID(ctx, llc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionAdded, created)
	return created, nil
}

func (s *llcService) Update(ctx context.Context, id uuid.UUID, form *LLCForm) (*models.LLC, error) {
	changes, err := form.Validate()
	if err != nil {
		return nil, err
	}

	var updated *models.LLC
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		existing, err := tx.LLCs().GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		existing.Name = changes.Name
		existing.CreationDate = changes.CreationDate
		existing.LastFilingDate = changes.LastFilingDate
		if err := tx.LLCs().Update(ctx, existing); err != nil {
			return translateWriteError(err)
		}
		updated, err = tx.LLCs().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionChanged, updated)
	return updated, nil
}

// Delete removes an LLC that owns no properties and returns the removed row.
func (s *llcService) Delete(ctx context.Context, id uuid.UUID) (*models.LLC, error) {
	var deleted *models.LLC
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		llc, err := tx.LLCs().GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		blocked := integrityConflict("Cannot delete LLC '%s' because it owns properties.", llc.Name)
		count, err := tx.LLCs().CountProperties(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return blocked
		}

		if err := tx.LLCs().Delete(ctx, id); err != nil {
			return translateDeleteError(err, blocked.Message)
		}
		deleted = llc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionDeleted, deleted)
	return deleted, nil
}

func (s *llcService) FilingReport(ctx context.Context, today time.Time) ([]FilingReportRow, error) {
	llcs, err := s.store.LLCs().List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]FilingReportRow, 0, len(llcs))
	for _, llc := range llcs {
		rows = append(rows, FilingReportRow{
			LLC:      llc,
			Status:   llc.FilingStatus(today),
			Deadline: models.FilingDeadline(today),
		})
	}
	return rows, nil
}
