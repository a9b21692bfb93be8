package store

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v against its struct tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// IsValidation reports whether err came from Validate rejecting a record.
func IsValidation(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}
