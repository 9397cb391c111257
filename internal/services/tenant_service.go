package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// MaxDocumentSize caps an identification scan upload.
	MaxDocumentSize = 10 << 20

	documentURLExpiry = 15 * time.Minute
)

type TenantService interface {
	List(ctx context.Context) ([]*models.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Create(ctx context.Context, form *TenantForm) (*models.Tenant, error)
	Update(ctx context.Context, id uuid.UUID, form *TenantForm) (*models.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Choices(ctx context.Context) (*TenantChoices, error)

	// AttachDocument stores an identification scan, replacing any previous one.
	AttachDocument(ctx context.Context, id uuid.UUID, doc *Document) (*models.Tenant, error)
	// DocumentURL returns a short-lived download link for the tenant's scan.
	DocumentURL(ctx context.Context, id uuid.UUID) (string, error)
}

// Document is an uploaded file on its way to storage.
type Document struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// TenantChoices lists the selectable values of the tenant form.
type TenantChoices struct {
	Properties          []models.Choice `json:"property_id"`
	IdentificationTypes []models.Choice `json:"identification_type"`
}

type tenantService struct {
	store     repositories.Store
	audit     AuditLogsService
	documents DocumentStorage
}

// NewTenantService builds the service. documents may be nil, which disables uploads.
func NewTenantService(store repositories.Store, audit AuditLogsService, documents DocumentStorage) TenantService {
	return &tenantService{store: store, audit: audit, documents: documents}
}

func (s *tenantService) List(ctx context.Context) ([]*models.Tenant, error) {
	return s.store.Tenants().List(ctx)
}

func (s *tenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := s.store.Tenants().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *tenantService) Create(ctx context.Context, form *TenantForm) (*models.Tenant, error) {
	tenant, err := form.Validate()
	if err != nil {
		return nil, err
	}
	tenant.ID = uuid.New()

	var created *models.Tenant
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := checkPropertyExists(ctx, tx, tenant.PropertyID); err != nil {
			return err
		}
		if err := tx.Tenants().Create(ctx, tenant); err != nil {
			return translateWriteError(err)
		}
		var err error
		created, err = tx.Tenants().GetByID(ctx, tenant.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionAdded, created)
	return created, nil
}

func (s *tenantService) Update(ctx context.Context, id uuid.UUID, form *TenantForm) (*models.Tenant, error) {
	changes, err := form.Validate()
	if err != nil {
		return nil, err
	}
	changes.ID = id

	var updated *models.Tenant
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Tenants().GetByID(ctx, id); err != nil {
			return notFound(err)
		}
		if err := checkPropertyExists(ctx, tx, changes.PropertyID); err != nil {
			return err
		}
		if err := tx.Tenants().Update(ctx, changes); err != nil {
			return translateWriteError(err)
		}
		var err error
		updated, err = tx.Tenants().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionChanged, updated)
	return updated, nil
}

// Delete removes a tenant without payments. Its document, if any, is removed
// from storage after the row is gone.
func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var deleted *models.Tenant
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		tenant, err := tx.Tenants().GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		blocked := integrityConflict("Cannot delete tenant '%s' because they have payments.", tenant)
		payments, err := tx.Tenants().CountPayments(ctx, id)
		if err != nil {
			return err
		}
		if payments > 0 {
			return blocked
		}

		if err := tx.Tenants().Delete(ctx, id); err != nil {
			return translateDeleteError(err, blocked.Message)
		}
		deleted = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.ActionDeleted, deleted)
	if deleted.IDDocumentKey != nil {
		s.removeDocument(ctx, *deleted.IDDocumentKey)
	}
	return deleted, nil
}

func (s *tenantService) Choices(ctx context.Context) (*TenantChoices, error) {
	properties, err := s.store.Properties().List(ctx)
	if err != nil {
		return nil, err
	}
	choices := &TenantChoices{
		Properties:          make([]models.Choice, 0, len(properties)),
		IdentificationTypes: models.IdentificationTypeChoices(),
	}
	for _, p := range properties {
		choices.Properties = append(choices.Properties, models.Choice{Value: p.ID.String(), Label: p.String()})
	}
	return choices, nil
}

func (s *tenantService) AttachDocument(ctx context.Context, id uuid.UUID, doc *Document) (*models.Tenant, error) {
	if s.documents == nil {
		return nil, ErrDocumentsDisabled
	}
	if doc == nil || doc.Body == nil || doc.Size <= 0 {
		ve := NewValidationError()
		ve.Add("document", "The submitted file is empty.")
		return nil, ve
	}
	if doc.Size > MaxDocumentSize {
		ve := NewValidationError()
		ve.Add("document", fmt.Sprintf("Ensure this file is at most %d MiB.", MaxDocumentSize>>20))
		return nil, ve
	}

	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := documentKey(id, doc.Filename)
	if err := s.documents.Upload(ctx, key, doc.Body, doc.Size, doc.ContentType); err != nil {
		return nil, err
	}

	var updated *models.Tenant
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tenants().SetDocumentKey(ctx, id, &key); err != nil {
			return notFound(err)
		}
		var err error
		updated, err = tx.Tenants().GetByID(ctx, id)
		return err
	})
	if err != nil {
		s.removeDocument(ctx, key)
		return nil, err
	}

	if tenant.IDDocumentKey != nil && *tenant.IDDocumentKey != key {
		s.removeDocument(ctx, *tenant.IDDocumentKey)
	}
	s.audit.Record(ctx, models.ActionChanged, updated)
	return updated, nil
}

func (s *tenantService) DocumentURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.documents == nil {
		return "", ErrDocumentsDisabled
	}
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !tenant.HasDocument() {
		return "", ErrNoDocument
	}
	return s.documents.PresignedURL(ctx, *tenant.IDDocumentKey, documentURLExpiry)
}

// removeDocument deletes an object that no row points at any more.
func (s *tenantService) removeDocument(ctx context.Context, key string) {
	if s.documents == nil {
		return
	}
	if err := s.documents.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("failed to remove tenant document", "key", key, "err", err)
	}
}

func documentKey(tenantID uuid.UUID, filename string) string {
	return fmt.Sprintf("tenants/%s/%s%s", tenantID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}

// checkPropertyExists reports a dangling optional property reference as a field error.
func checkPropertyExists(ctx context.Context, tx repositories.Store, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := tx.Properties().GetByID(ctx, *id)
	if errors.Is(err, repositories.ErrNotFound) {
		ve := NewValidationError()
		ve.Add("property_id", invalidChoice)
		return ve
	}
	return err
}
