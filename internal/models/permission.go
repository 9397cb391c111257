package models

import (
	"time"

	"github.com/google/uuid"
)

type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Codename    string    `json:"codename" db:"codename"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type PermissionAction string

const (
	PermView   PermissionAction = "view"
	PermAdd    PermissionAction = "add"
	PermChange PermissionAction = "change"
	PermDelete PermissionAction = "delete"
)

// Entity codenames used in permission strings.
const (
	EntityLLC      = "llc"
	EntityProperty = "property"
	EntityTenant   = "tenant"
	EntityPayment  = "payment"
	EntityAuditLog = "auditlog"
)

// PermissionCodename builds "<action>_<entity>", e.g. "add_property".
func PermissionCodename(action PermissionAction, entity string) string {
	return string(action) + "_" + entity
}

// Principal is the authenticated user travelling in the request context.
type Principal struct {
	UserID      uuid.UUID           `json:"user_id"`
	Username    string              `json:"username"`
	FirstName   string              `json:"first_name"`
	TokenID     string              `json:"-"`
	Permissions map[string]struct{} `json:"-"`
}

func NewPrincipal(user *User, codenames []string) *Principal {
	perms := make(map[string]struct{}, len(codenames))
	for _, c := range codenames {
		perms[c] = struct{}{}
	}
	return &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		Permissions: perms,
	}
}

func (p *Principal) HasPermission(codename string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Permissions[codename]
	return ok
}

func (p *Principal) Can(action PermissionAction, entity string) bool {
	return p.HasPermission(PermissionCodename(action, entity))
}

// DisplayName is the first name when known, otherwise the username.
func (p *Principal) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.Username
}
