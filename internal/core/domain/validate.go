package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the tag-based rules and converts the result into the
// domain's ValidationError so callers never see validator types.
func validateStruct(s any) error {
	err := validate.Struct(s)

	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors

	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: []FieldError{{Field: "input", Message: err.Error()}}}
	}

	ve := &ValidationError{}

	for _, fe := range fieldErrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
		})
	}

	return ve
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
