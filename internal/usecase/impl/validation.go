// Package impl contains the implementation of the application's business logic.
package impl

import (
	"fmt"
	"strings"

	domainerrors "talk/internal/domain/errors"
	"talk/internal/errors"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals
var inputValidator = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the struct tags of input and reports every failing
// field in the error details.
func validateInput(input any) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WithDetails("input is required")
	}

	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}

	fieldErrs, ok := errors.AsType[validator.ValidationErrors](err)
	if !ok {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describeFieldError(fe))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(details, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "e164":
		return fmt.Sprintf("%s must be an E.164 phone number", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must use the %s layout", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
