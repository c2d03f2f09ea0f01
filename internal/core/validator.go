package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"stresscast/internal/types"
)

// ValidationError describes a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with domain-specific tags and
// AppError translation for the handler layer.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a new Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()

	// sim_date: a YYYY-MM-DD calendar date, the wire format of scenario and
	// outlook windows.
	_ = v.RegisterValidation("sim_date", func(fl validator.FieldLevel) bool {
		_, err := time.ParseInLocation(types.DateLayout, fl.Field().String(), time.UTC)
		return err == nil
	})

	// sim_domain: one of the supported infrastructure sectors.
	_ = v.RegisterValidation("sim_domain", func(fl validator.FieldLevel) bool {
		return types.Domain(fl.Field().String()).Valid()
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct validates the given struct against its `validate` tags.
// On failure it returns a *types.AppError whose code reflects the first
// violation (missing field vs. out-of-range value) and whose details carry
// the full list of field errors for the client.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	invalidErr, ok := err.(*validator.InvalidValidationError)
	if ok {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation target is not a struct", invalidErr)
	}

	fieldErrs := err.(validator.ValidationErrors)
	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: fieldErrorMessage(fe),
		})
	}

	code := types.ErrCodeValidationParamRange
	if errs[0].Code == "required" {
		code = types.ErrCodeValidationMissingField
	}

	return types.NewAppErrorWithDetails(
		code,
		fmt.Sprintf("validation failed for field %q", errs[0].Field),
		err,
		map[string]any{"validation_errors": errs},
	)
}

// fieldErrorMessage renders a client-facing message for one field error.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "sim_date":
		return fmt.Sprintf("%s must be a valid %s date", fe.Field(), types.DateLayout)
	case "sim_domain":
		return fmt.Sprintf("%s must be one of energy, water, agriculture", fe.Field())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed validation rule %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed validation rule %s", fe.Field(), fe.Tag())
	}
}
