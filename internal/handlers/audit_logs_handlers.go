package handlers

import (
	"net/http"

	"renttracker/internal/models"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers exposes the persisted action trail.
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
	page             *Page
}

func NewAuditLogsHandlers(auditLogsService services.AuditLogsService, page *Page) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditLogsService: auditLogsService, page: page}
}

type ListAuditLogsRequest struct {
	EntityType string `query:"entity_type"`
	Action     string `query:"action"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListAuditLogs returns entries newest first, optionally filtered by entity
// type and action.
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	var req ListAuditLogsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	filters := &models.AuditLogFilters{Limit: req.Limit, Offset: req.Offset}
	if req.EntityType != "" {
		filters.EntityType = &req.EntityType
	}
	if req.Action != "" {
		action := models.AuditAction(req.Action)
		filters.Action = &action
	}

	logs, err := h.auditLogsService.List(c.Request().Context(), filters)
	if err != nil {
		return err
	}
	return h.page.Render(c, http.StatusOK, echo.Map{
		"audit_logs": logs,
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})
}
