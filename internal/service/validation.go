package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

// validationError converts a validator failure into the API's validation
// error, carrying one (field, violation) pair per failed constraint.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Validation failed")
	}

	details := make([]appErrors.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, appErrors.FieldViolation{
			Field:     fe.Field(),
			Violation: violationMessage(fe),
		})
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "Validation failed"), details)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}
