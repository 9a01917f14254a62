package validation

import (
	"fmt"
	"strings"

	"convertly-go/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	if err := validate.RegisterValidation("targetformat", validateTargetFormat); err != nil {
		panic(fmt.Sprintf("failed to register targetformat validation: %v", err))
	}
	if err := validate.RegisterValidation("imagemime", validateImageMIME); err != nil {
		panic(fmt.Sprintf("failed to register imagemime validation: %v", err))
	}
}

// Validate validates a struct using tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

func validateTargetFormat(fl validator.FieldLevel) bool {
	_, err := models.ParseFormat(fl.Field().String())
	return err == nil
}

// Declared types come from the uploader, so the check is a plain prefix
// match just like a browser's File.type.
func validateImageMIME(fl validator.FieldLevel) bool {
	return strings.HasPrefix(fl.Field().String(), "image/")
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string
	Tag   string
	Error string
}

// FormatError formats a validation error into a human-readable message
func FormatError(err error) []ValidationError {
	var validationErrors []ValidationError

	if err == nil {
		return validationErrors
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return validationErrors
	}

	for _, e := range errs {
		var message string

		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", e.Field())
		case "min":
			message = fmt.Sprintf("%s needs at least %s entries", e.Field(), e.Param())
		case "max", "lte":
			message = fmt.Sprintf("%s exceeds the limit of %s", e.Field(), e.Param())
		case "targetformat":
			message = "Target format must be one of webp, avif, jpg, jpeg or png"
		case "imagemime":
			message = "File is not an image"
		default:
			message = fmt.Sprintf("Invalid value for %s", e.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field: strings.ToLower(e.Field()),
			Tag:   e.Tag(),
			Error: message,
		})
	}

	return validationErrors
}
