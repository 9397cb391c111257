package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyStatus string

const (
	PropertyStatusOccupied  PropertyStatus = "OCC"
	PropertyStatusVacant    PropertyStatus = "VAC"
	PropertyStatusOffice    PropertyStatus = "OFF"
	PropertyStatusLotVacant PropertyStatus = "LOT"
	PropertyStatusOther     PropertyStatus = "OTH"
)

var propertyStatusChoices = []Choice{
	{Value: string(PropertyStatusOccupied), Label: "Occupied"},
	{Value: string(PropertyStatusVacant), Label: "Vacant"},
	{Value: string(PropertyStatusOffice), Label: "Office"},
	{Value: string(PropertyStatusLotVacant), Label: "Lot Vacant"},
	{Value: string(PropertyStatusOther), Label: "Other"},
}

// PropertyStatusChoices lists the statuses in display order.
func PropertyStatusChoices() []Choice {
	return append([]Choice(nil), propertyStatusChoices...)
}

func (s PropertyStatus) Valid() bool {
	return s.Label() != ""
}

// Label returns the display label, or "" for an unknown code.
func (s PropertyStatus) Label() string {
	for _, c := range propertyStatusChoices {
		if c.Value == string(s) {
			return c.Label
		}
	}
	return ""
}

// Property is a parcel, home or lot owned by exactly one LLC.
type Property struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LLCID           uuid.UUID       `json:"llc_id" db:"llc_id"`
	LLCName         string          `json:"llc_name" db:"llc_name"`
	StreetNumber    string          `json:"street_number" db:"street_number"`
	StreetName      string          `json:"street_name" db:"street_name"`
	DatePurchased   *time.Time      `json:"date_purchased" db:"date_purchased"`
	Size            string          `json:"size" db:"size"`
	Status          PropertyStatus  `json:"status" db:"status"`
	RentAmount      decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	HomePayment     decimal.Decimal `json:"home_payment" db:"home_payment"`
	LotPayment      decimal.Decimal `json:"lot_payment" db:"lot_payment"`
	Make            string          `json:"make" db:"make"`
	Year            *int16          `json:"year" db:"year"`
	VIN             *string         `json:"vin" db:"vin"`
	SecurityDeposit decimal.Decimal `json:"security_deposit" db:"security_deposit"`
	Bedrooms        int16           `json:"bedrooms" db:"bedrooms"`
	Bathrooms       decimal.Decimal `json:"bathrooms" db:"bathrooms"`
	PowerProvider   string          `json:"power_provider" db:"power_provider"`
	WaterProvider   string          `json:"water_provider" db:"water_provider"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProperty returns a property carrying the storage defaults.
func NewProperty() *Property {
	return &Property{
		Status:    PropertyStatusVacant,
		Bedrooms:  1,
		Bathrooms: decimal.NewFromInt(1),
	}
}

// Address is the street line without the owning LLC.
func (p *Property) Address() string {
	return fmt.Sprintf("%s %s", p.StreetNumber, p.StreetName)
}

func (p *Property) String() string {
	return fmt.Sprintf("%s (%s)", p.Address(), p.LLCName)
}

func (p *Property) StatusLabel() string { return p.Status.Label() }

func (p *Property) AuditEntityType() string { return "Property" }

func (p *Property) AuditEntityID() string { return p.ID.String() }
