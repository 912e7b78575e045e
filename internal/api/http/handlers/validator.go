package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs go-playground/validator tags and converts the first
// failure into a domain validation error.
func validateStruct(i any) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidationError(
			fmt.Sprintf("field %s failed on '%s' validation", fe.Field(), fe.Tag()),
			map[string]any{"field": fe.Field(), "rule": fe.Tag()},
		)
	}
	return apperrors.NewValidationError("invalid payload", nil)
}
