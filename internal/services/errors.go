package services

import (
	"fmt"
	"sort"
	"strings"

	"renttracker/internal/repositories"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRateLimited        = errors.New("too many login attempts, try again later")
	ErrDocumentsDisabled  = errors.New("document storage is not configured")
	ErrNoDocument         = errors.New("tenant has no identification document")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so it can be returned as an error directly.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

type ConflictKind string

const (
	ConflictUniqueness ConflictKind = "uniqueness"
	ConflictIntegrity  ConflictKind = "integrity"
)

// ConflictError is a write refused because of other rows: a duplicate value
// or a dependent record that protects the target from deletion.
type ConflictError struct {
	Kind    ConflictKind
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func integrityConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Kind: ConflictIntegrity, Message: fmt.Sprintf(format, args...)}
}

// uniqueMessages maps unique constraints onto the field and message shown to the user.
var uniqueMessages = map[string][2]string{
	"llcs_name_key":      {"name", "LLC with this Name already exists."},
	"properties_vin_key": {"vin", "Property with this VIN already exists."},
	"users_username_key": {"username", "A user with that username already exists."},
}

// referenceFields maps foreign keys onto the form field that supplied them.
var referenceFields = map[string]string{
	"properties_llc_id_fkey":    "llc_id",
	"tenants_property_id_fkey":  "property_id",
	"payments_tenant_id_fkey":   "tenant_id",
	"payments_property_id_fkey": "property_id",
}

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// translateWriteError maps a failed insert or update onto the service error set.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}

	var constraintErr *repositories.ConstraintError
	if !errors.As(err, &constraintErr) {
		return err
	}

	switch {
	case constraintErr.IsUnique():
		if m, ok := uniqueMessages[constraintErr.Constraint]; ok {
			return &ConflictError{Kind: ConflictUniqueness, Field: m[0], Message: m[1]}
		}
		return &ConflictError{Kind: ConflictUniqueness, Message: "A record with these values already exists."}
	case constraintErr.IsForeignKey():
		ve := NewValidationError()
		field, ok := referenceFields[constraintErr.Constraint]
		if !ok {
			field = "__all__"
		}
		ve.Add(field, invalidChoice)
		return ve
	case constraintErr.IsCheck():
		ve := NewValidationError()
		ve.Add("__all__", "The submitted values violate a storage rule ("+constraintErr.Constraint+").")
		return ve
	default:
		return err
	}
}

// translateDeleteError maps a failed delete. A foreign key violation here means
// a dependent row appeared after the pre-delete checks ran.
func translateDeleteError(err error, blocked string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	var constraintErr *repositories.ConstraintError
	if errors.As(err, &constraintErr) && constraintErr.IsForeignKey() {
		return &ConflictError{Kind: ConflictIntegrity, Message: blocked}
	}
	return err
}

// notFound maps a repository miss onto ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
