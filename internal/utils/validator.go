// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("order_status", validateOrderStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	return models.OrderStatus(fl.Field().String()).IsValid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error, lang string) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			validationErrors = append(validationErrors, ValidationError{
				Field:   field,
				Tag:     e.Tag(),
				Message: getValidationMessage(e, field, lang),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError, field, lang string) string {
	switch e.Tag() {
	case "required":
		return i18n.T(lang, i18n.KeyValidationRequired, field)
	case "email":
		return i18n.T(lang, i18n.KeyValidationEmail, field)
	case "min":
		return i18n.T(lang, i18n.KeyValidationMin, field)
	case "max":
		return i18n.T(lang, i18n.KeyValidationMax, field)
	case "order_status":
		return i18n.T(lang, i18n.KeyOrderInvalidStatus)
	default:
		return field + " is invalid"
	}
}
