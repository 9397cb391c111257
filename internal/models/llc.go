package models

import (
	"time"

	"github.com/google/uuid"
)

// LLC is the holding entity that owns properties.
type LLC struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	CreationDate   time.Time  `json:"creation_date" db:"creation_date"`
	LastFilingDate *time.Time `json:"last_filing_date" db:"last_filing_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (l *LLC) String() string { return l.Name }

func (l *LLC) AuditEntityType() string { return "LLC" }

func (l *LLC) AuditEntityID() string { return l.ID.String() }

// FilingStatus classifies the LLC's last filing against the deadline nearest to today.
func (l *LLC) FilingStatus(today time.Time) FilingStatus {
	return ComputeFilingStatus(l.LastFilingDate, today)
}
