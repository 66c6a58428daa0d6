package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// Validator combines struct-tag validation with attempt-row business rules.
type Validator struct {
	structValidator  *validator.Validate
	attemptValidator *AttemptValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:  structValidator,
		attemptValidator: NewAttemptValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateAttempts validates dataset rows against business rules.
func (v *Validator) ValidateAttempts(attempts []models.Attempt) ValidationErrors {
	return v.attemptValidator.Validate(attempts)
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("severity", validateSeverity)
	validate.RegisterValidation("gap_kind", validateGapKind)
	validate.RegisterValidation("detection_mode", validateDetectionMode)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateSeverity(fl validator.FieldLevel) bool {
	switch models.Severity(fl.Field().String()) {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return true
	}
	return false
}

func validateGapKind(fl validator.FieldLevel) bool {
	switch models.GapKind(fl.Field().String()) {
	case models.GapKindConcept, models.GapKindConfidence, models.GapKindSpeed:
		return true
	}
	return false
}

func validateDetectionMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "standard", "early_detection", "conservative":
		return true
	}
	return false
}
