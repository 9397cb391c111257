package models

import "time"

// DateLayout is the wire format of every calendar date in forms and responses.
const DateLayout = "2006-01-02"

// Choice pairs a stored enum code with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormatDate renders an optional date, blank when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// Auditable is implemented by every entity whose changes land in the audit trail.
type Auditable interface {
	AuditEntityType() string
	AuditEntityID() string
	String() string
}
