package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v against its validate tags and returns a human readable
// error describing the first violation.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	return errors.New(describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	// dive errors are reported as Field[i]
	field, _, _ := strings.Cut(fe.Field(), "[")

	switch field {
	case "Content":
		return fmt.Sprintf("Message must be 1-%d characters.", MaxMessageLength)
	case "Answers":
		return fmt.Sprintf("Answers must have %d items between %d and %d", AnswerCount, MinAnswer, MaxAnswer)
	case "Rating":
		return fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
