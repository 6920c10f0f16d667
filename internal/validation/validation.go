package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"parking-backend/internal/models"
)

// ValidationError reports the first invalid field of a request
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// New builds a ValidationError for field
func New(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var vehicleNumberPattern = regexp.MustCompile(`^[A-Z]{2}-\d{2}-[A-Z]{1,2}-\d{4}$`)

// messages shown to the operator, keyed by json field name
var fieldMessages = map[string]string{
	"customer_name":   "Customer Name should contain only alphabets!",
	"vehicle_number":  "Vehicle Number format: CC-NN-C-NNNN or CC-NN-CC-NNNN",
	"contact_number":  "Contact Number should be exactly 10 digits!",
	"identity_number": "Aadhar Number must be exactly 12 digits!",
	"duration_hours":  "Parking Hours should be a 3-digit number (max 999)!",
	"name":            "Slot name must be one of: " + strings.Join(models.SlotCategoryNames, ", "),
	"fare":            "Fare must be a non-negative number!",
	"capacity":        "Number of slots must be a positive number!",
	"category_id":     "Select a slot category",
	"slot_number":     "Select a slot",
	"method":          "Payment method must be cash or card",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so errors line up with the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("personname", personName)
	v.RegisterValidation("vehiclereg", vehicleReg)
	v.RegisterValidation("digits", exactDigits)
	v.RegisterValidation("slotname", slotName)
	return v
}

var personName validator.Func = func(fl validator.FieldLevel) bool {
	return IsPersonName(fl.Field().String())
}

var vehicleReg validator.Func = func(fl validator.FieldLevel) bool {
	return IsVehicleNumber(fl.Field().String())
}

var exactDigits validator.Func = func(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return IsDigits(fl.Field().String(), n)
}

var slotName validator.Func = func(fl validator.FieldLevel) bool {
	return models.IsSlotCategoryName(fl.Field().String())
}

// IsPersonName accepts letters and spaces with at least one letter
func IsPersonName(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case r == ' ':
		case unicode.IsLetter(r):
			letters++
		default:
			return false
		}
	}
	return letters > 0
}

// IsVehicleNumber matches CC-NN-C-NNNN or CC-NN-CC-NNNN
func IsVehicleNumber(s string) bool {
	return vehicleNumberPattern.MatchString(s)
}

// IsDigits reports whether s is exactly n ASCII digits
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Struct validates a request and returns the first failing field as a
// *ValidationError, or nil
func Struct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation: %w", err)
	}

	fe := fieldErrs[0]
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return New(fe.Field(), msg)
	}
	return New(fe.Field(), fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
}
