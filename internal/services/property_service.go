package services

import (
	"context"

	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type PropertyService interface {
	List(ctx context.Context) ([]*models.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Create(ctx context.Context, form *PropertyForm) (*models.Property, error)
	Update(ctx context.Context, id uuid.UUID, form *PropertyForm) (*models.Property, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Choices(ctx context.Context) (*PropertyChoices, error)
}

// PropertyChoices lists the selectable values of the property form.
type PropertyChoices struct {
	LLCs     []models.Choice `json:"llc_id"`
	Statuses []models.Choice `json:"status"`
}

type propertyService struct {
	store repositories.Store
	audit AuditLogsService
}

func NewPropertyService(store repositories.Store, audit AuditLogsService) PropertyService {
	return &propertyService{store: store, audit: audit}
}

func (s *propertyService) List(ctx context.Context) ([]*models.Property, error) {
	return s.store.Properties().List(ctx)
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.store.Properties().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, form *PropertyForm) (*models.Property, error) {
	property, err := form.Validate()
	if err != nil {
		return nil, err
	}
	property.ID = uuid.New()

	var created *models.Property
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := checkLLCExists(ctx, tx, property.LLCID); err != nil {
			return err
		}
		if err := tx.Properties().Create(ctx, property); err != nil {
			return translateWriteError(err)
		}
		var err error
		created, err = tx.Properties().GetByID(ctx, property.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionAdded, created)
	return created, nil
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, form *PropertyForm) (*models.Property, error) {
	changes, err := form.Validate()
	if err != nil {
		return nil, err
	}
	changes.ID = id

	var updated *models.Property
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Properties().GetByID(ctx, id); err != nil {
			return notFound(err)
		}
		if err := checkLLCExists(ctx, tx, changes.LLCID); err != nil {
			return err
		}
		if err := tx.Properties().Update(ctx, changes); err != nil {
			return translateWriteError(err)
		}
		var err error
		updated, err = tx.Properties().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionChanged, updated)
	return updated, nil
}

// Delete removes a property that has neither tenants nor payments.
func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var deleted *models.Property
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		property, err := tx.Properties().GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		tenants, err := tx.Properties().CountTenants(ctx, id)
		if err != nil {
			return err
		}
		if tenants > 0 {
			return integrityConflict("Cannot delete property '%s' because it has tenants.", property)
		}

		blocked := integrityConflict("Cannot delete property '%s' because it has payments.", property)
		payments, err := tx.Properties().CountPayments(ctx, id)
		if err != nil {
			return err
		}
		if payments > 0 {
			return blocked
		}

		if err := tx.Properties().Delete(ctx, id); err != nil {
			return translateDeleteError(err, blocked.Message)
		}
		deleted = property
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionDeleted, deleted)
	return deleted, nil
}

func (s *propertyService) Choices(ctx context.Context) (*PropertyChoices, error) {
	llcs, err := s.store.LLCs().List(ctx)
	if err != nil {
		return nil, err
	}
	choices := &PropertyChoices{
		LLCs:     make([]models.Choice, 0, len(llcs)),
		Statuses: models.PropertyStatusChoices(),
	}
	for _, llc := range llcs {
		choices.LLCs = append(choices.LLCs, models.Choice{Value: llc.ID.String(), Label: llc.Name})
	}
	return choices, nil
}

// checkLLCExists reports a missing owner as a field error on llc_id.
func checkLLCExists(ctx context.Context, tx repositories.Store, id uuid.UUID) error {
	_, err := tx.LLCs().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		ve := NewValidationError()
		ve.Add("llc_id", invalidChoice)
		return ve
	}
	return err
}
