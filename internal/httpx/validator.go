package httpx

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("currency", validateCurrencyCode)
}

// validateCurrencyCode accepts exactly three ASCII letters, any case.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// ValidateStruct runs the validator tags on s and translates failures
// into response details. Nil means s is valid.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, ErrorDetail{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		})
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "currency":
		return "must be a three-letter currency code"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
