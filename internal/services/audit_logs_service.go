package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"renttracker/internal/common"
	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/google/uuid"
)

// auditWriteTimeout bounds the persistence of one audit entry.
const auditWriteTimeout = 5 * time.Second

type AuditLogsService interface {
	// Record logs and persists one change. It never fails the caller.
	Record(ctx context.Context, action models.AuditAction, entity models.Auditable)

	// List returns persisted entries newest first.
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
		logger:        common.AuditLogger(),
		now:           time.Now,
	}
}

func (s *auditLogsService) Record(ctx context.Context, action models.AuditAction, entity models.Auditable) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("audit record panicked", "action", action, "panic", r)
		}
	}()

	actor, actorID := common.ActorFromContext(ctx)
	entry := &models.AuditLog{
		ID:            uuid.New(),
		Actor:         actor,
		ActorID:       actorID,
		Action:        action,
		EntityType:    entity.AuditEntityType(),
		EntityID:      entity.AuditEntityID(),
		EntityDisplay: entity.String(),
		CreatedAt:     s.now(),
	}

	s.logger.Info(entry.Message())

	// the request may already be cancelled once the transaction has committed
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()
	if err := s.auditLogsRepo.Create(writeCtx, entry); err != nil {
		slog.Warn("failed to persist audit log", "action", action, "entity_type", entry.EntityType, "entity_id", entry.EntityID, "err", err)
	}
}

func (s *auditLogsService) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	limit, offset, err := common.ValidatePaginationParams(filters.Limit, filters.Offset)
	if err != nil {
		ve := NewValidationError()
		ve.Add("offset", err.Error())
		return nil, ve
	}
	filters.Limit, filters.Offset = limit, offset

	if filters.Action != nil && !filters.Action.Valid() {
		ve := NewValidationError()
		ve.Add("action", fmt.Sprintf("Unknown action %q.", *filters.Action))
		return nil, ve
	}

	return s.auditLogsRepo.List(ctx, filters)
}
