package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// MissingFields extracts the names of fields that failed not_blank or
// required. Field names are the json keys when the validator came from New.
func MissingFields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var fields []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "not_blank", "required":
			fields = append(fields, e.Field())
		}
	}
	return fields
}
