package invoices

import (
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgCustomer  = "Please select a customer."
	MsgAmount    = "Please enter an amount greater than $0."
	MsgAmountMax = "Please enter a smaller amount."
	MsgStatus    = "Please select an invoice status."
)

// MaxAmountCents is the largest amount invoices.amount (INT) can hold. The
// lte bound on Input.Amount is this value in dollars.
const MaxAmountCents = math.MaxInt32

// Input is the validated invoice form. Amount is in dollars.
type Input struct {
	CustomerID string  `form:"customerId" validate:"required"`
	Amount     float64 `form:"amount" validate:"gt=0,lte=21474836.47"`
	Status     Status  `form:"status" validate:"oneof=pending paid"`
}

// FieldErrors maps a form field name to its error messages. Fields without
// errors are absent.
type FieldErrors map[string][]string

// Has reports whether field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

var fieldMessages = map[string]string{
	"customerId": MsgCustomer,
	"amount":     MsgAmount,
	"amount.lte": MsgAmountMax,
	"status":     MsgStatus,
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// ParseForm coerces and validates raw invoice form values. Every rule is
// evaluated; the returned FieldErrors is nil when the input is valid. Any
// id or date values in the form are ignored.
func ParseForm(values url.Values) (Input, FieldErrors) {
	in := Input{
		CustomerID: strings.TrimSpace(values.Get("customerId")),
		Amount:     coerceAmount(values.Get("amount")),
		Status:     Status(values.Get("status")),
	}
	err := formValidator.Struct(in)
	if err == nil {
		return in, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return in, FieldErrors{"form": {err.Error()}}
	}
	errs := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fieldMessages[fe.Field()]
		}
		errs[fe.Field()] = append(errs[fe.Field()], msg)
	}
	return in, errs
}

// Cents converts a dollar amount to integer cents.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// coerceAmount parses s as a number rounded to whole cents, so an amount
// that would store as zero cents fails the amount rule. Blank, malformed or
// non-finite input becomes NaN.
func coerceAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN()
	}
	return math.Round(v*100) / 100
}
