package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type IdentificationType string

const (
	IdentificationNone           IdentificationType = ""
	IdentificationDriversLicense IdentificationType = "DL"
	IdentificationDoDID          IdentificationType = "DOD"
	IdentificationSocialSecurity IdentificationType = "SSN"
	IdentificationPassport       IdentificationType = "PASS"
	IdentificationOther          IdentificationType = "OTH"
)

var identificationTypeChoices = []Choice{
	{Value: string(IdentificationDriversLicense), Label: "Driver's License"},
	{Value: string(IdentificationDoDID), Label: "DoD ID"},
	{Value: string(IdentificationSocialSecurity), Label: "Social Security Card"},
	{Value: string(IdentificationPassport), Label: "Passport"},
	{Value: string(IdentificationOther), Label: "Other"},
}

// IdentificationTypeChoices lists the identification types in display order.
// The blank type is accepted but not offered.
func IdentificationTypeChoices() []Choice {
	return append([]Choice(nil), identificationTypeChoices...)
}

func (t IdentificationType) Valid() bool {
	return t == IdentificationNone || t.Label() != ""
}

func (t IdentificationType) Label() string {
	for _, c := range identificationTypeChoices {
		if c.Value == string(t) {
			return c.Label
		}
	}
	return ""
}

// Tenant is a person renting one of the properties. PropertyID is nil while
// the tenant is not placed or has moved out.
type Tenant struct {
	ID                   uuid.UUID          `json:"id" db:"id"`
	FirstName            string             `json:"first_name" db:"first_name"`
	LastName             string             `json:"last_name" db:"last_name"`
	PhoneNumber          string             `json:"phone_number" db:"phone_number"`
	DateOfBirth          *time.Time         `json:"date_of_birth" db:"date_of_birth"`
	IdentificationType   IdentificationType `json:"identification_type" db:"identification_type"`
	IdentificationNumber string             `json:"identification_number" db:"identification_number"`
	IsApproved           bool               `json:"is_approved" db:"is_approved"`
	DateApproved         *time.Time         `json:"date_approved" db:"date_approved"`
	MoveInDate           *time.Time         `json:"move_in_date" db:"move_in_date"`
	PropertyID           *uuid.UUID         `json:"property_id" db:"property_id"`
	PropertyAddress      *string            `json:"property_address" db:"property_address"`
	IDDocumentKey        *string            `json:"-" db:"id_document_key"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}

func (t *Tenant) String() string {
	return fmt.Sprintf("%s %s", t.FirstName, t.LastName)
}

func (t *Tenant) HasDocument() bool {
	return t.IDDocumentKey != nil && *t.IDDocumentKey != ""
}

func (t *Tenant) AuditEntityType() string { return "Tenant" }

func (t *Tenant) AuditEntityID() string { return t.ID.String() }
