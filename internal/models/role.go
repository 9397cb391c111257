package models

import (
	"time"

	"github.com/google/uuid"
)

// Seeded role names.
const (
	RoleViewers          = "viewers"
	RolePropertyManagers = "property_managers"
)

type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
