package services

import (
	"bytes"
	"context"

	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type PaymentService interface {
	List(ctx context.Context) ([]*models.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Create(ctx context.Context, form *PaymentForm) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, form *PaymentForm) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Choices(ctx context.Context) (*PaymentChoices, error)

	// ExportWorkbook renders every payment as an xlsx workbook.
	ExportWorkbook(ctx context.Context) ([]byte, error)
}

// PaymentChoices lists the selectable values of the payment form.
type PaymentChoices struct {
	Tenants    []models.Choice `json:"tenant_id"`
	Properties []models.Choice `json:"property_id"`
}

type paymentService struct {
	store repositories.Store
	audit AuditLogsService
}

func NewPaymentService(store repositories.Store, audit AuditLogsService) PaymentService {
	return &paymentService{store: store, audit: audit}
}

func (s *paymentService) List(ctx context.Context) ([]*models.Payment, error) {
	return s.store.Payments().List(ctx)
}

func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.store.Payments().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *paymentService) Create(ctx context.Context, form *PaymentForm) (*models.Payment, error) {
	payment, err := form.Validate()
	if err != nil {
		return nil, err
	}
	payment.ID = uuid.New()

	var created *models.Payment
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := checkPaymentReferences(ctx, tx, payment); err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return translateWriteError(err)
		}
		var err error
		created, err = tx.Payments().GetByID(ctx, payment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionAdded, created)
	return created, nil
}

func (s *paymentService) Update(ctx context.Context, id uuid.UUID, form *PaymentForm) (*models.Payment, error) {
	changes, err := form.Validate()
	if err != nil {
		return nil, err
	}
	changes.ID = id

	var updated *models.Payment
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Payments().GetByID(ctx, id); err != nil {
			return notFound(err)
		}
		if err := checkPaymentReferences(ctx, tx, changes); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, changes); err != nil {
			return translateWriteError(err)
		}
		var err error
		updated, err = tx.Payments().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionChanged, updated)
	return updated, nil
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var deleted *models.Payment
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		payment, err := tx.Payments().GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if err := tx.Payments().Delete(ctx, id); err != nil {
			return notFound(err)
		}
		deleted = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionDeleted, deleted)
	return deleted, nil
}

func (s *paymentService) Choices(ctx context.Context) (*PaymentChoices, error) {
	tenants, err := s.store.Tenants().List(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := s.store.Properties().List(ctx)
	if err != nil {
		return nil, err
	}

	choices := &PaymentChoices{
		Tenants:    make([]models.Choice, 0, len(tenants)),
		Properties: make([]models.Choice, 0, len(properties)),
	}
	for _, t := range tenants {
		choices.Tenants = append(choices.Tenants, models.Choice{Value: t.ID.String(), Label: t.String()})
	}
	for _, p := range properties {
		choices.Properties = append(choices.Properties, models.Choice{Value: p.ID.String(), Label: p.String()})
	}
	return choices, nil
}

var paymentExportHeader = []string{"Payment Date", "Tenant", "Property", "Amount", "Notes"}

const paymentSheet = "Payments"

func (s *paymentService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	payments, err := s.store.Payments().List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paymentSheet); err != nil {
		return nil, errors.Wrap(err, "could not name sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "could not create header style")
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, errors.Wrap(err, "could not create amount style")
	}

	if err := f.SetSheetRow(paymentSheet, "A1", &paymentExportHeader); err != nil {
		return nil, errors.Wrap(err, "could not write header")
	}
	if err := f.SetCellStyle(paymentSheet, "A1", "E1", headerStyle); err != nil {
		return nil, errors.Wrap(err, "could not style header")
	}

	for i, p := range payments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "could not address row")
		}
		row := []any{
			p.PaymentDate.Format(models.DateLayout),
			p.TenantName,
			p.PropertyAddress(),
			p.Amount.InexactFloat64(),
			p.Notes,
		}
		if err := f.SetSheetRow(paymentSheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "could not write row %d", i+2)
		}
	}
	if len(payments) > 0 {
		last := len(payments) + 1
		from, _ := excelize.CoordinatesToCellName(4, 2)
		to, _ := excelize.CoordinatesToCellName(4, last)
		if err := f.SetCellStyle(paymentSheet, from, to, amountStyle); err != nil {
			return nil, errors.Wrap(err, "could not style amounts")
		}
	}

	for col, width := range map[string]float64{"A": 14, "B": 28, "C": 32, "D": 12, "E": 40} {
		if err := f.SetColWidth(paymentSheet, col, col, width); err != nil {
			return nil, errors.Wrap(err, "could not size columns")
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "could not render workbook")
	}
	return buf.Bytes(), nil
}

// checkPaymentReferences reports a missing tenant or property as field errors.
func checkPaymentReferences(ctx context.Context, tx repositories.Store, p *models.Payment) error {
	ve := NewValidationError()
	if _, err := tx.Tenants().GetByID(ctx, p.TenantID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		ve.Add("tenant_id", invalidChoice)
	}
	if _, err := tx.Properties().GetByID(ctx, p.PropertyID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		ve.Add("property_id", invalidChoice)
	}
	return ve.OrNil()
}
