package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

// Action constants for audit logs
const (
	ActionAdded   AuditAction = "Added"
	ActionChanged AuditAction = "Changed"
	ActionDeleted AuditAction = "Deleted"
)

// SystemActor names the actor when no authenticated principal is present.
const SystemActor = "System/Unknown"

func (a AuditAction) Valid() bool {
	switch a {
	case ActionAdded, ActionChanged, ActionDeleted:
		return true
	}
	return false
}

// AuditLog represents one create, update or delete of a domain entity
type AuditLog struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Actor         string      `json:"actor" db:"actor"`
	ActorID       *uuid.UUID  `json:"actor_id" db:"actor_id"`
	Action        AuditAction `json:"action" db:"action"`
	EntityType    string      `json:"entity_type" db:"entity_type"`
	EntityID      string      `json:"entity_id" db:"entity_id"`
	EntityDisplay string      `json:"entity_display" db:"entity_display"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// Message renders the entry the way it appears on the action log.
func (a *AuditLog) Message() string {
	return fmt.Sprintf("User '%s' %s %s: '%s' (ID: %s)", a.Actor, a.Action, a.EntityType, a.EntityDisplay, a.EntityID)
}

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	EntityType *string      `json:"entity_type"`
	Action     *AuditAction `json:"action"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}
