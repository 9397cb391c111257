package repositories

import (
	"context"
	"fmt"

	"renttracker/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// List audit logs with filtering options, newest first
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DBTX
}

func NewAuditLogsRepo(db DBTX) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	query := `
		INSERT INTO audit_logs (id, actor, actor_id, action, entity_type, entity_id, entity_display, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		auditLog.ID,
		auditLog.Actor,
		auditLog.ActorID,
		auditLog.Action,
		auditLog.EntityType,
		auditLog.EntityID,
		auditLog.EntityDisplay,
		auditLog.CreatedAt,
	)
	return translateError(err, "could not insert audit log")
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	query := `
		SELECT id, actor, actor_id, action, entity_type, entity_id, entity_display, created_at
		FROM audit_logs
		WHERE 1 = 1
	`

	args := []any{}
	argIdx := 0

	if filters.EntityType != nil {
		argIdx++
		query += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, *filters.EntityType)
	}

	if filters.Action != nil {
		argIdx++
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filters.Action)
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		argIdx++
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			argIdx++
			query += fmt.Sprintf(" OFFSET $%d", argIdx)
			args = append(args, filters.Offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "could not list audit logs")
	}
	defer rows.Close()

	auditLogs := []*models.AuditLog{}
	for rows.Next() {
		auditLog := &models.AuditLog{}
		err := rows.Scan(
			&auditLog.ID,
			&auditLog.Actor,
			&auditLog.ActorID,
			&auditLog.Action,
			&auditLog.EntityType,
			&auditLog.EntityID,
			&auditLog.EntityDisplay,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, translateError(err, "could not scan audit log")
		}
		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, translateError(rows.Err(), "could not list audit logs")
}
