package services

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"renttracker/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and collects every failing field.
func validateStruct(form any) *ValidationError {
	ve := NewValidationError()
	err := validate.Struct(form)
	if err == nil {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("__all__", err.Error())
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "datetime":
		return "Enter a valid date."
	case "oneof", "uuid":
		return invalidChoice
	default:
		return "Enter a valid value."
	}
}

// parseDate reads an optional YYYY-MM-DD value. Format errors are already
// reported by the datetime tag, so a failure here just yields nil.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func parseUUID(raw string) *uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// decimalRule describes a fixed point column: total digits, fractional digits
// and an inclusive lower bound.
type decimalRule struct {
	maxDigits int32
	places    int32
	min       decimal.Decimal
}

var (
	moneyRule     = decimalRule{maxDigits: 8, places: 2, min: decimal.Zero}
	amountRule    = decimalRule{maxDigits: 8, places: 2, min: decimal.RequireFromString("0.01")}
	bathroomsRule = decimalRule{maxDigits: 3, places: 1, min: decimal.RequireFromString("0.5")}
)

// maxDecimalInput bounds both the length of a submitted number and how far
// its exponent may reach.
const maxDecimalInput = 32

// parseDecimal validates raw against rule. Blank input yields def; a nil def
// makes the field required.
func parseDecimal(ve *ValidationError, field, raw string, rule decimalRule, def *decimal.Decimal) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if def == nil {
			ve.Add(field, "This field is required.")
			return decimal.Zero
		}
		return *def
	}

	tooManyDigits := fmt.Sprintf("Ensure that there are no more than %d digits in total.", rule.maxDigits)
	if len(raw) > maxDecimalInput {
		ve.Add(field, tooManyDigits)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		ve.Add(field, "Enter a number.")
		return decimal.Zero
	}

	// Round and Cmp rescale to a common exponent, so an input such as
	// "1e2000000000" must be rejected before either runs.
	if d.Exponent() > rule.maxDigits {
		ve.Add(field, tooManyDigits)
		return decimal.Zero
	}
	if d.Exponent() < -maxDecimalInput {
		ve.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", rule.places))
		return decimal.Zero
	}

	if !d.Equal(d.Round(rule.places)) {
		ve.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", rule.places))
		return d
	}
	limit := decimal.New(1, rule.maxDigits-rule.places)
	if d.Abs().GreaterThanOrEqual(limit) {
		ve.Add(field, tooManyDigits)
		return d
	}
	if d.LessThan(rule.min) {
		ve.Add(field, fmt.Sprintf("Ensure this value is greater than or equal to %s.", rule.min.String()))
		return d
	}
	return d.Round(rule.places)
}

const maxSmallInt = 32767

// parseSmallInt validates a non-negative smallint. Blank input yields def; a
// nil def leaves the field absent.
func parseSmallInt(ve *ValidationError, field, raw string, def *int16) *int16 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		ve.Add(field, "Enter a whole number.")
		return nil
	}
	if n < 0 {
		ve.Add(field, "Ensure this value is greater than or equal to 0.")
		return nil
	}
	if n > maxSmallInt {
		ve.Add(field, fmt.Sprintf("Ensure this value is less than or equal to %d.", maxSmallInt))
		return nil
	}
	v := int16(n)
	return &v
}

func formatSmallInt(v *int16) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}
