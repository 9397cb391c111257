package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is money received from a tenant for a property.
type Payment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	TenantID     uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	PropertyID   uuid.UUID       `json:"property_id" db:"property_id"`
	PaymentDate  time.Time       `json:"payment_date" db:"payment_date"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Notes        string          `json:"notes" db:"notes"`
	TenantName   string          `json:"tenant_name" db:"tenant_name"`
	StreetNumber string          `json:"street_number" db:"street_number"`
	StreetName   string          `json:"street_name" db:"street_name"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (p *Payment) PropertyAddress() string {
	return fmt.Sprintf("%s %s", p.StreetNumber, p.StreetName)
}

func (p *Payment) String() string {
	return fmt.Sprintf("Payment: $%s by %s on %s for %s",
		p.Amount.StringFixed(2), p.TenantName, p.PaymentDate.Format(DateLayout), p.PropertyAddress())
}

func (p *Payment) AuditEntityType() string { return "Payment" }

func (p *Payment) AuditEntityID() string { return p.ID.String() }
