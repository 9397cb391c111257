package common

import (
	"context"
	"fmt"
	"strings"

	"renttracker/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

// Error codes carried in ErrorResponse.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUniquenessConflict = "UNIQUENESS_CONFLICT"
	CodeIntegrityConflict  = "INTEGRITY_CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeClient             = "CLIENT_ERROR"
	CodeServer             = "SERVER_ERROR"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
	Form any `json:"form,omitempty"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// WithPrincipal stores the authenticated principal on the context
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFromContext extracts the principal, if any, from the request context
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// ActorFromContext names the acting user for the audit trail, falling back
// to the system sentinel outside an authenticated request.
func ActorFromContext(ctx context.Context) (string, *uuid.UUID) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return models.SystemActor, nil
	}
	id := p.UserID
	return p.Username, &id
}

// ValidateUUID validates a path or form identifier
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid identifier", fieldName)
	}
	return id, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NilIfBlank maps blank input onto an absent value
func NilIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("offset cannot exceed 1,000,000")
	}

	return limit, offset, nil
}
