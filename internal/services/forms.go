package services

import (
	"strings"

	"renttracker/internal/common"
	"renttracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Forms carry raw submitted values. They bind from JSON or form-encoded
// bodies, are echoed back with field errors, and convert to models through
// their Validate method.

type LLCForm struct {
	Name           string `json:"name" form:"name" validate:"required,max=200"`
	CreationDate   string `json:"creation_date" form:"creation_date" validate:"required,datetime=2006-01-02"`
	LastFilingDate string `json:"last_filing_date" form:"last_filing_date" validate:"omitempty,datetime=2006-01-02"`
}

func NewLLCForm(l *models.LLC) LLCForm {
	if l == nil {
		return LLCForm{}
	}
	return LLCForm{
		Name:           l.Name,
		CreationDate:   models.FormatDate(&l.CreationDate),
		LastFilingDate: models.FormatDate(l.LastFilingDate),
	}
}

func (f *LLCForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.CreationDate = strings.TrimSpace(f.CreationDate)
	f.LastFilingDate = strings.TrimSpace(f.LastFilingDate)
}

// Validate checks the form and returns the LLC it describes.
func (f *LLCForm) Validate() (*models.LLC, error) {
	f.normalize()
	ve := validateStruct(f)
	if ve.HasErrors() {
		return nil, ve
	}
	return &models.LLC{
		Name:           f.Name,
		CreationDate:   *parseDate(f.CreationDate),
		LastFilingDate: parseDate(f.LastFilingDate),
	}, nil
}

type PropertyForm struct {
	LLCID           string `json:"llc_id" form:"llc_id" validate:"required,uuid"`
	StreetNumber    string `json:"street_number" form:"street_number" validate:"required,max=20"`
	StreetName      string `json:"street_name" form:"street_name" validate:"required,max=150"`
	DatePurchased   string `json:"date_purchased" form:"date_purchased" validate:"omitempty,datetime=2006-01-02"`
	Size            string `json:"size" form:"size" validate:"max=50"`
	Status          string `json:"status" form:"status" validate:"omitempty,oneof=OCC VAC OFF LOT OTH"`
	RentAmount      string `json:"rent_amount" form:"rent_amount"`
	HomePayment     string `json:"home_payment" form:"home_payment"`
	LotPayment      string `json:"lot_payment" form:"lot_payment"`
	Make            string `json:"make" form:"make" validate:"max=100"`
	Year            string `json:"year" form:"year"`
	VIN             string `json:"vin" form:"vin" validate:"max=50"`
	SecurityDeposit string `json:"security_deposit" form:"security_deposit"`
	Bedrooms        string `json:"bedrooms" form:"bedrooms"`
	Bathrooms       string `json:"bathrooms" form:"bathrooms"`
	PowerProvider   string `json:"power_provider" form:"power_provider" validate:"max=100"`
	WaterProvider   string `json:"water_provider" form:"water_provider" validate:"max=100"`
}

func NewPropertyForm(p *models.Property) PropertyForm {
	if p == nil {
		p = models.NewProperty()
	}
	f := PropertyForm{
		StreetNumber:    p.StreetNumber,
		StreetName:      p.StreetName,
		DatePurchased:   models.FormatDate(p.DatePurchased),
		Size:            p.Size,
		Status:          string(p.Status),
		RentAmount:      p.RentAmount.StringFixed(2),
		HomePayment:     p.HomePayment.StringFixed(2),
		LotPayment:      p.LotPayment.StringFixed(2),
		Make:            p.Make,
		Year:            formatSmallInt(p.Year),
		VIN:             common.SafeString(p.VIN),
		SecurityDeposit: p.SecurityDeposit.StringFixed(2),
		Bedrooms:        formatSmallInt(&p.Bedrooms),
		Bathrooms:       p.Bathrooms.StringFixed(1),
		PowerProvider:   p.PowerProvider,
		WaterProvider:   p.WaterProvider,
	}
	if p.LLCID != uuid.Nil {
		f.LLCID = p.LLCID.String()
	}
	return f
}

func (f *PropertyForm) normalize() {
	for _, s := range []*string{
		&f.LLCID, &f.StreetNumber, &f.StreetName, &f.DatePurchased, &f.Size, &f.Status,
		&f.RentAmount, &f.HomePayment, &f.LotPayment, &f.Make, &f.Year, &f.VIN,
		&f.SecurityDeposit, &f.Bedrooms, &f.Bathrooms, &f.PowerProvider, &f.WaterProvider,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the form and returns the property it describes. The
// owning LLC's existence is checked by the service.
func (f *PropertyForm) Validate() (*models.Property, error) {
	f.normalize()
	ve := validateStruct(f)

	zero := decimal.Zero
	one := decimal.NewFromInt(1)
	defaultBedrooms := int16(1)

	p := models.NewProperty()
	p.StreetNumber = f.StreetNumber
	p.StreetName = f.StreetName
	p.DatePurchased = parseDate(f.DatePurchased)
	p.Size = f.Size
	if f.Status != "" {
		p.Status = models.PropertyStatus(f.Status)
	}
	p.RentAmount = parseDecimal(ve, "rent_amount", f.RentAmount, moneyRule, &zero)
	p.HomePayment = parseDecimal(ve, "home_payment", f.HomePayment, moneyRule, &zero)
	p.LotPayment = parseDecimal(ve, "lot_payment", f.LotPayment, moneyRule, &zero)
	p.Make = f.Make
	p.Year = parseSmallInt(ve, "year", f.Year, nil)
	// blank VIN is stored as absent so the unique constraint ignores it
	p.VIN = common.NilIfBlank(f.VIN)
	p.SecurityDeposit = parseDecimal(ve, "security_deposit", f.SecurityDeposit, moneyRule, &zero)
	if bedrooms := parseSmallInt(ve, "bedrooms", f.Bedrooms, &defaultBedrooms); bedrooms != nil {
		p.Bedrooms = *bedrooms
	}
	p.Bathrooms = parseDecimal(ve, "bathrooms", f.Bathrooms, bathroomsRule, &one)
	p.PowerProvider = f.PowerProvider
	p.WaterProvider = f.WaterProvider

	if id := parseUUID(f.LLCID); id != nil {
		p.LLCID = *id
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return p, nil
}

type TenantForm struct {
	FirstName            string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" form:"last_name" validate:"required,max=100"`
	PhoneNumber          string `json:"phone_number" form:"phone_number" validate:"max=20"`
	DateOfBirth          string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	IdentificationType   string `json:"identification_type" form:"identification_type" validate:"omitempty,oneof=DL DOD SSN PASS OTH"`
	IdentificationNumber string `json:"identification_number" form:"identification_number" validate:"max=100"`
	IsApproved           bool   `json:"is_approved" form:"is_approved"`
	DateApproved         string `json:"date_approved" form:"date_approved" validate:"omitempty,datetime=2006-01-02"`
	MoveInDate           string `json:"move_in_date" form:"move_in_date" validate:"omitempty,datetime=2006-01-02"`
	PropertyID           string `json:"property_id" form:"property_id" validate:"omitempty,uuid"`
}

func NewTenantForm(t *models.Tenant) TenantForm {
	if t == nil {
		return TenantForm{}
	}
	f := TenantForm{
		FirstName:            t.FirstName,
		LastName:             t.LastName,
		PhoneNumber:          t.PhoneNumber,
		DateOfBirth:          models.FormatDate(t.DateOfBirth),
		IdentificationType:   string(t.IdentificationType),
		IdentificationNumber: t.IdentificationNumber,
		IsApproved:           t.IsApproved,
		DateApproved:         models.FormatDate(t.DateApproved),
		MoveInDate:           models.FormatDate(t.MoveInDate),
	}
	if t.PropertyID != nil {
		f.PropertyID = t.PropertyID.String()
	}
	return f
}

func (f *TenantForm) normalize() {
	for _, s := range []*string{
		&f.FirstName, &f.LastName, &f.PhoneNumber, &f.DateOfBirth, &f.IdentificationType,
		&f.IdentificationNumber, &f.DateApproved, &f.MoveInDate, &f.PropertyID,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the form and returns the tenant it describes.
func (f *TenantForm) Validate() (*models.Tenant, error) {
	f.normalize()
	ve := validateStruct(f)
	if ve.HasErrors() {
		return nil, ve
	}
	return &models.Tenant{
		FirstName:            f.FirstName,
		LastName:             f.LastName,
		PhoneNumber:          f.PhoneNumber,
		DateOfBirth:          parseDate(f.DateOfBirth),
		IdentificationType:   models.IdentificationType(f.IdentificationType),
		IdentificationNumber: f.IdentificationNumber,
		IsApproved:           f.IsApproved,
		DateApproved:         parseDate(f.DateApproved),
		MoveInDate:           parseDate(f.MoveInDate),
		PropertyID:           parseUUID(f.PropertyID),
	}, nil
}

type PaymentForm struct {
	TenantID    string `json:"tenant_id" form:"tenant_id" validate:"required,uuid"`
	PropertyID  string `json:"property_id" form:"property_id" validate:"required,uuid"`
	PaymentDate string `json:"payment_date" form:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      string `json:"amount" form:"amount"`
	Notes       string `json:"notes" form:"notes"`
}

func NewPaymentForm(p *models.Payment) PaymentForm {
	if p == nil {
		return PaymentForm{}
	}
	return PaymentForm{
		TenantID:    p.TenantID.String(),
		PropertyID:  p.PropertyID.String(),
		PaymentDate: p.PaymentDate.Format(models.DateLayout),
		Amount:      p.Amount.StringFixed(2),
		Notes:       p.Notes,
	}
}

func (f *PaymentForm) normalize() {
	f.TenantID = strings.TrimSpace(f.TenantID)
	f.PropertyID = strings.TrimSpace(f.PropertyID)
	f.PaymentDate = strings.TrimSpace(f.PaymentDate)
	f.Amount = strings.TrimSpace(f.Amount)
}

// Validate checks the form and returns the payment it describes.
func (f *PaymentForm) Validate() (*models.Payment, error) {
	f.normalize()
	ve := validateStruct(f)

	p := &models.Payment{
		Amount: parseDecimal(ve, "amount", f.Amount, amountRule, nil),
		Notes:  f.Notes,
	}
	if ve.HasErrors() {
		return nil, ve
	}

	p.TenantID = *parseUUID(f.TenantID)
	p.PropertyID = *parseUUID(f.PropertyID)
	p.PaymentDate = *parseDate(f.PaymentDate)
	return p, nil
}
