package services

import (
	"context"
	"io"
	"time"

	"renttracker/internal/models"

	"github.com/stretchr/testify/mock"
)

// recordedAudit is one call made to the audit service.
type recordedAudit struct {
	Action  models.AuditAction
	Display string
	Type    string
}

// fakeAudit collects audit calls instead of writing them.
type fakeAudit struct {
	records []recordedAudit
}

func (f *fakeAudit) Record(ctx context.Context, action models.AuditAction, entity models.Auditable) {
	f.records = append(f.records, recordedAudit{Action: action, Display: entity.String(), Type: entity.AuditEntityType()})
}

func (f *fakeAudit) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	return nil, nil
}

type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockDocumentStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStorage) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockDocumentStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
